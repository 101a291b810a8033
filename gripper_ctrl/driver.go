package main

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/Hamoudi96/SwarmathonCode/gripper_ctrl/control"
	"github.com/Hamoudi96/SwarmathonCode/utils"
)

// targetAngleSignal is the single signal carried by each target command
// frame (wrist topic and finger topic alike).
const targetAngleSignal = "angle_rad"

// DriverConfig collects the command-line level settings of the driver.
type DriverConfig struct {
	Interface  string
	MapPath    string
	ConfigPath string
	StateFrame string
	CmdFrame   string
	PollPeriod time.Duration
}

// Driver wires the gripper control core to the CAN rig. It owns the two
// periodic gates, the latest-target holder written by the receive
// goroutine, and the measured joint state fed in over the state frame.
//
// The control path itself is single threaded: only Run's loop calls tick.
type Driver struct {
	cfg  DriverConfig
	gcfg GripperConfig
	log  *utils.Logger
	cmap *utils.CANMap

	manager *control.GripperManager
	targets control.LatestTargets

	writer utils.CANWriter
	reader CANReader

	stateFrame  *utils.FrameDef
	cmdFrame    *utils.FrameDef
	wristTopic  *utils.FrameDef
	fingerTopic *utils.FrameDef

	controlGate *control.PeriodicGate
	debugGate   *control.PeriodicGate

	// Loop-local state, touched only from Run's goroutine.
	stateCh chan control.GripperState
	current control.GripperState
	desired control.GripperState
	applied control.GripperForces
	fires   uint64
}

// NewDriver loads the CAN map and gripper configuration, resolves every
// joint and topic against the map, and opens the SocketCAN transport.
// Any failure here means the gripper is not safe to run; the caller is
// expected to abort.
func NewDriver(ctx context.Context, cfg DriverConfig, log *utils.Logger) (*Driver, error) {
	cmap, err := utils.LoadCANMap(cfg.MapPath)
	if err != nil {
		return nil, errors.Wrap(err, "load gripper CAN map")
	}

	gcfg, err := LoadGripperConfig(cfg.ConfigPath, log)
	if err != nil {
		return nil, errors.Wrap(err, "load gripper config")
	}

	writer, err := utils.NewSocketCANWriter(ctx, cfg.Interface)
	if err != nil {
		return nil, err
	}
	reader, err := NewSocketCANReader(ctx, cfg.Interface)
	if err != nil {
		writer.Close()
		return nil, err
	}

	d, err := newDriver(cfg, gcfg, cmap, log, writer, reader)
	if err != nil {
		writer.Close()
		reader.Close()
		return nil, err
	}
	return d, nil
}

// newDriver performs the transport-independent assembly so tests can
// inject fake reader/writer implementations.
func newDriver(cfg DriverConfig, gcfg GripperConfig, cmap *utils.CANMap, log *utils.Logger,
	writer utils.CANWriter, reader CANReader) (*Driver, error) {

	stateFrame, err := cmap.FrameByName(cfg.StateFrame)
	if err != nil {
		return nil, errors.Wrap(err, "state frame")
	}
	cmdFrame, err := cmap.FrameByName(cfg.CmdFrame)
	if err != nil {
		return nil, errors.Wrap(err, "command frame")
	}

	// Every configured joint must be a signal of both the state frame
	// (angle in) and the command frame (force out).
	names := gcfg.JointNames
	for _, joint := range []string{names.Wrist, names.LeftFinger, names.RightFinger} {
		if !stateFrame.HasSignal(joint) {
			return nil, errors.Errorf("no %s joint is defined in state frame %s", joint, stateFrame.Name)
		}
		if !cmdFrame.HasSignal(joint) {
			return nil, errors.Errorf("no %s joint is defined in command frame %s", joint, cmdFrame.Name)
		}
	}

	wristTopic, err := resolveTopic(cmap, gcfg.WristTopic)
	if err != nil {
		return nil, errors.Wrap(err, "<wristTopic>")
	}
	fingerTopic, err := resolveTopic(cmap, gcfg.FingerTopic)
	if err != nil {
		return nil, errors.Wrap(err, "<fingerTopic>")
	}

	manager, err := control.NewGripperManager(names, gcfg.WristPID, gcfg.FingerPID)
	if err != nil {
		return nil, err
	}

	if gcfg.Debug.Active {
		log.SetMinLevel(utils.DEBUG)
	}

	return &Driver{
		cfg:         cfg,
		gcfg:        gcfg,
		log:         log,
		cmap:        cmap,
		manager:     manager,
		writer:      writer,
		reader:      reader,
		stateFrame:  stateFrame,
		cmdFrame:    cmdFrame,
		wristTopic:  wristTopic,
		fingerTopic: fingerTopic,
		stateCh:     make(chan control.GripperState, 1),
	}, nil
}

func resolveTopic(cmap *utils.CANMap, frameName string) (*utils.FrameDef, error) {
	fd, err := cmap.FrameByName(frameName)
	if err != nil {
		return nil, err
	}
	if !fd.HasSignal(targetAngleSignal) {
		return nil, errors.Errorf("frame %s carries no %s signal", fd.Name, targetAngleSignal)
	}
	return fd, nil
}

func (d *Driver) Close() {
	if d.reader != nil {
		_ = d.reader.Close()
	}
	if d.writer != nil {
		_ = d.writer.Close()
	}
}

// Run drives the control and debug gates off a fast poll ticker until the
// context is canceled. Polls where neither gate fires do nothing; the
// previously transmitted forces simply stay applied on the rig.
func (d *Driver) Run(ctx context.Context) error {
	names := d.manager.JointNames()
	d.log.Info("Starting gripper control: iface=%s cmd=%s state=%s period=%s joints=[%s %s %s]",
		d.cfg.Interface, d.cmdFrame.Name, d.stateFrame.Name, d.gcfg.ControlPeriod,
		names.Wrist, names.LeftFinger, names.RightFinger)
	d.log.Info("wristPID: Kp=%.3f Ki=%.3f Kd=%.3f dt=%.4f force=[%.1f, %.1f]",
		d.gcfg.WristPID.Kp, d.gcfg.WristPID.Ki, d.gcfg.WristPID.Kd,
		d.gcfg.WristPID.DT, d.gcfg.WristPID.Min, d.gcfg.WristPID.Max)
	d.log.Info("fingerPID: Kp=%.3f Ki=%.3f Kd=%.3f dt=%.4f force=[%.1f, %.1f]",
		d.gcfg.FingerPID.Kp, d.gcfg.FingerPID.Ki, d.gcfg.FingerPID.Kd,
		d.gcfg.FingerPID.DT, d.gcfg.FingerPID.Min, d.gcfg.FingerPID.Max)

	now := time.Now()
	d.controlGate = control.NewPeriodicGate(d.gcfg.ControlPeriod, now)
	d.debugGate = control.NewPeriodicGate(d.gcfg.Debug.Period, now)

	go d.receiveLoop(ctx)

	ticker := time.NewTicker(d.cfg.PollPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.log.Warn("Context canceled; stopping gripper control. control_fires=%d", d.fires)
			return ctx.Err()

		case st := <-d.stateCh:
			d.current = st

		case now := <-ticker.C:
			if err := d.tick(ctx, now); err != nil {
				return err
			}
		}
	}
}

// tick polls both gates against now. Exactly one control computation
// happens per control-gate fire; the debug gate runs on its own cadence.
func (d *Driver) tick(ctx context.Context, now time.Time) error {
	if d.controlGate.Ready(now) {
		if err := d.fireControl(ctx); err != nil {
			return err
		}
	}
	if d.gcfg.Debug.Active && d.debugGate.Ready(now) {
		d.printSnapshot()
	}
	return nil
}

// fireControl executes one control tick: latest targets in, force command
// frame out.
func (d *Driver) fireControl(ctx context.Context) error {
	d.desired = d.targets.Desired()
	d.applied = d.manager.GetForces(d.desired, d.current)

	names := d.manager.JointNames()
	values := map[string]float64{
		names.Wrist:       d.applied.WristForce,
		names.LeftFinger:  d.applied.LeftFingerForce,
		names.RightFinger: d.applied.RightFingerForce,
	}

	frame, err := d.cmap.EncodeCANFrame(d.cmdFrame.Name, values)
	if err != nil {
		d.log.Error("Encode command frame failed: %v", err)
		return err
	}
	if err := d.writer.WriteFrame(ctx, frame); err != nil {
		d.log.Critical("Transmit command frame failed: %v", err)
		return err
	}

	d.fires++
	d.log.Trace("TX id=0x%X wrist=%.3fN left=%.3fN right=%.3fN",
		uint32(frame.ID), d.applied.WristForce, d.applied.LeftFingerForce, d.applied.RightFingerForce)

	if d.fires%1000 == 0 {
		w, l, r := d.manager.Diagnostics()
		d.log.Debug("PID: wrist err=%.4f int=%.4f | left err=%.4f int=%.4f | right err=%.4f int=%.4f",
			w.Error, w.Integral, l.Error, l.Integral, r.Error, r.Integral)
	}
	return nil
}

// printSnapshot emits the debug-cadence view of the gripper: current and
// desired angle plus last applied force, per joint.
func (d *Driver) printSnapshot() {
	names := d.manager.JointNames()
	d.log.Debug("      Wrist [%s]: current=%12.6f rad desired=%12.6f rad applied=%12.6f N",
		names.Wrist, d.current.WristAngle, d.desired.WristAngle, d.applied.WristForce)
	d.log.Debug("Left finger [%s]: current=%12.6f rad desired=%12.6f rad applied=%12.6f N",
		names.LeftFinger, d.current.LeftFingerAngle, d.desired.LeftFingerAngle, d.applied.LeftFingerForce)
	d.log.Debug("Right finger [%s]: current=%12.6f rad desired=%12.6f rad applied=%12.6f N",
		names.RightFinger, d.current.RightFingerAngle, d.desired.RightFingerAngle, d.applied.RightFingerForce)
}

// receiveLoop drains inbound frames for the lifetime of the driver. Target
// frames overwrite the atomic latest-value holder; state frames are folded
// into the control loop through a single-slot channel, dropping stale
// snapshots when the loop is busy.
func (d *Driver) receiveLoop(ctx context.Context) {
	d.log.Debug("RX loop started")
	defer d.log.Debug("RX loop stopped")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		frame, err := d.reader.ReadFrame(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			d.log.Error("RX error: %v", err)
			continue
		}

		switch frame.ID {
		case d.wristTopic.ID:
			vals, err := d.cmap.DecodeFrame(frame.ID, frame.Data[:frame.Length])
			if err != nil {
				d.log.Error("Decode wrist target failed: %v", err)
				continue
			}
			d.targets.SetWristAngle(vals[targetAngleSignal])
			d.log.Trace("RX wrist target=%.4f rad", vals[targetAngleSignal])

		case d.fingerTopic.ID:
			vals, err := d.cmap.DecodeFrame(frame.ID, frame.Data[:frame.Length])
			if err != nil {
				d.log.Error("Decode finger target failed: %v", err)
				continue
			}
			d.targets.SetFingerOpening(vals[targetAngleSignal])
			d.log.Trace("RX finger target=%.4f rad", vals[targetAngleSignal])

		case d.stateFrame.ID:
			vals, err := d.cmap.DecodeFrame(frame.ID, frame.Data[:frame.Length])
			if err != nil {
				d.log.Error("Decode state frame failed: %v", err)
				continue
			}
			names := d.manager.JointNames()
			st := control.GripperState{
				WristAngle:       vals[names.Wrist],
				LeftFingerAngle:  vals[names.LeftFinger],
				RightFingerAngle: vals[names.RightFinger],
			}
			select {
			case d.stateCh <- st:
			default:
				// Control loop is mid-poll; drop and let a later frame refill.
			}
		}
	}
}
