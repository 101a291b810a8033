package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/Hamoudi96/SwarmathonCode/gripper_ctrl/control"
	"github.com/Hamoudi96/SwarmathonCode/utils"
)

// Defaults applied when an optional tag is missing from the gripper
// configuration document.
const (
	defaultUpdateRateHz = 1000.0
	defaultDebugPeriodS = 3.0
)

var (
	defaultPIDGains    = [3]float64{2.5, 0.0, 0.0}
	defaultForceLimits = [2]float64{-10.0, 10.0}
)

// DebugSettings controls the periodic console snapshot of the gripper.
type DebugSettings struct {
	Active bool
	Period time.Duration
}

// GripperConfig is the validated, fully-defaulted load result. Every
// consumer downstream of LoadGripperConfig can assume it is sound; a
// document that cannot produce a sound config is a load-time error and
// the process never starts.
type GripperConfig struct {
	ControlPeriod time.Duration
	JointNames    control.GripperJointNames
	WristPID      control.PIDSettings
	FingerPID     control.PIDSettings
	Debug         DebugSettings
	WristTopic    string
	FingerTopic   string
}

// rawGripperDoc mirrors the configuration document. Optional tags are
// pointers so a missing tag is distinguishable from a zero value.
type rawGripperDoc struct {
	UpdateRate        *float64     `json:"updateRate"`
	WristJoint        *string      `json:"wristJoint"`
	LeftFingerJoint   *string      `json:"leftFingerJoint"`
	RightFingerJoint  *string      `json:"rightFingerJoint"`
	WristPID          *[3]float64  `json:"wristPID"`
	FingerPID         *[3]float64  `json:"fingerPID"`
	WristForceLimits  *[2]float64  `json:"wristForceLimits"`
	FingerForceLimits *[2]float64  `json:"fingerForceLimits"`
	Debug             *rawDebugDoc `json:"debug"`
	WristTopic        *string      `json:"wristTopic"`
	FingerTopic       *string      `json:"fingerTopic"`
}

type rawDebugDoc struct {
	PrintToConsole      *string  `json:"printToConsole"`
	PrintDelayInSeconds *float64 `json:"printDelayInSeconds"`
}

// LoadGripperConfig reads and validates the gripper configuration
// document. Soft defaults are logged at Info level; anything the gripper
// cannot safely run with comes back as an error.
func LoadGripperConfig(path string, log *utils.Logger) (GripperConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return GripperConfig{}, errors.Wrap(err, "read gripper config")
	}
	return parseGripperConfig(data, log)
}

func parseGripperConfig(data []byte, log *utils.Logger) (GripperConfig, error) {
	var doc rawGripperDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return GripperConfig{}, errors.Wrap(err, "unmarshal gripper config")
	}

	var cfg GripperConfig

	// updateRate -> control period; the PID dt is derived from it.
	rate := defaultUpdateRateHz
	if doc.UpdateRate == nil {
		log.Info("missing <updateRate> tag, defaulting to %.1f Hz", defaultUpdateRateHz)
	} else {
		rate = *doc.UpdateRate
		if rate <= 0 {
			return GripperConfig{}, errors.Errorf("updateRate = %v, updateRate cannot be <= 0", rate)
		}
	}
	cfg.ControlPeriod = time.Duration(float64(time.Second) / rate)

	wrist, err := requiredString(doc.WristJoint, "wristJoint")
	if err != nil {
		return GripperConfig{}, err
	}
	left, err := requiredString(doc.LeftFingerJoint, "leftFingerJoint")
	if err != nil {
		return GripperConfig{}, err
	}
	right, err := requiredString(doc.RightFingerJoint, "rightFingerJoint")
	if err != nil {
		return GripperConfig{}, err
	}
	cfg.JointNames = control.GripperJointNames{
		Wrist:       wrist,
		LeftFinger:  left,
		RightFinger: right,
	}

	dt := cfg.ControlPeriod.Seconds()
	cfg.WristPID, err = loadPIDSettings("wrist", doc.WristPID, doc.WristForceLimits, dt, log)
	if err != nil {
		return GripperConfig{}, err
	}
	cfg.FingerPID, err = loadPIDSettings("finger", doc.FingerPID, doc.FingerForceLimits, dt, log)
	if err != nil {
		return GripperConfig{}, err
	}

	cfg.Debug, err = loadDebugSettings(doc.Debug, log)
	if err != nil {
		return GripperConfig{}, err
	}

	cfg.WristTopic, err = requiredString(doc.WristTopic, "wristTopic")
	if err != nil {
		return GripperConfig{}, err
	}
	cfg.FingerTopic, err = requiredString(doc.FingerTopic, "fingerTopic")
	if err != nil {
		return GripperConfig{}, err
	}

	return cfg, nil
}

func requiredString(tag *string, name string) (string, error) {
	if tag == nil || *tag == "" {
		return "", errors.Errorf("no <%s> tag is defined in the gripper config", name)
	}
	return *tag, nil
}

// loadPIDSettings assembles one joint group's loop parameters from the
// optional gain and force-limit tags. pidTag is "wrist" or "finger".
func loadPIDSettings(pidTag string, gains *[3]float64, limits *[2]float64, dt float64, log *utils.Logger) (control.PIDSettings, error) {
	if pidTag != "wrist" && pidTag != "finger" {
		return control.PIDSettings{}, errors.Errorf("PID tag %q is invalid: use either \"wrist\" or \"finger\"", pidTag)
	}

	g := defaultPIDGains
	if gains == nil {
		log.Info("missing <%sPID> tag, defaulting to P=%.1f, I=%.1f, D=%.1f",
			pidTag, defaultPIDGains[0], defaultPIDGains[1], defaultPIDGains[2])
	} else {
		g = *gains
	}

	lim := defaultForceLimits
	if limits == nil {
		log.Info("missing <%sForceLimits> tag, defaulting to MIN = %.1f N, MAX = %.1f N",
			pidTag, defaultForceLimits[0], defaultForceLimits[1])
	} else {
		lim = *limits
	}

	settings := control.PIDSettings{
		Kp:  g[0],
		Ki:  g[1],
		Kd:  g[2],
		DT:  dt,
		Min: lim[0],
		Max: lim[1],
	}
	if err := settings.Validate(); err != nil {
		return control.PIDSettings{}, errors.Wrapf(err, "<%sPID>", pidTag)
	}
	return settings, nil
}

func loadDebugSettings(doc *rawDebugDoc, log *utils.Logger) (DebugSettings, error) {
	out := DebugSettings{Active: false}

	if doc == nil {
		log.Info("missing <debug> tag, defaulting to false")
		return out, nil
	}
	if doc.PrintToConsole == nil {
		log.Info("missing nested <printToConsole> tag in <debug> tag, defaulting to false")
		return out, nil
	}

	switch *doc.PrintToConsole {
	case "true":
		out.Active = true
	case "false":
		return out, nil
	default:
		log.Warn("invalid value in <printToConsole> tag, printToConsole = %s, defaulting to false", *doc.PrintToConsole)
		return out, nil
	}

	// The delay tag is only consulted when debugging is active.
	delay := defaultDebugPeriodS
	if doc.PrintDelayInSeconds == nil {
		log.Info("missing nested <printDelayInSeconds> tag in <debug> tag, defaulting to %.1f seconds", defaultDebugPeriodS)
	} else {
		delay = *doc.PrintDelayInSeconds
		if delay <= 0 {
			return DebugSettings{}, errors.Errorf("printDelayInSeconds = %v, printDelayInSeconds cannot be <= 0.0", delay)
		}
	}
	out.Period = time.Duration(delay * float64(time.Second))

	return out, nil
}
