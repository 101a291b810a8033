package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Hamoudi96/SwarmathonCode/utils"
)

func main() {
	var (
		iface      = flag.String("iface", "vcan0", "SocketCAN interface name")
		mapPath    = flag.String("map", "config/can/gripper_map.csv", "Path to the gripper CAN signal map")
		configPath = flag.String("config", "config/gripper.json", "Path to the gripper configuration document")
		stateFrame = flag.String("state-frame", "GRIPPER_STATE", "Frame carrying the measured joint angles")
		cmdFrame   = flag.String("cmd-frame", "GRIPPER_CMD", "Frame carrying the commanded joint forces")
		pollPeriod = flag.Duration("poll", time.Millisecond, "Scheduler poll interval")
		logLevel   = flag.String("log", "info", "trace|debug|info|warn|error|critical")
		logFile    = flag.String("logfile", "gripper_ctrl.log", "Log file path (empty for stdout only)")
	)
	flag.Parse()

	log, err := utils.NewLogger(*logFile, parseLevel(*logLevel), true)
	if err != nil {
		_, _ = os.Stderr.WriteString("ERROR: cannot open log file: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Close()

	cfg := DriverConfig{
		Interface:  *iface,
		MapPath:    *mapPath,
		ConfigPath: *configPath,
		StateFrame: *stateFrame,
		CmdFrame:   *cmdFrame,
		PollPeriod: *pollPeriod,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	driver, err := NewDriver(ctx, cfg, log)
	if err != nil {
		log.Critical("Startup failed: %v", err)
		os.Exit(1)
	}
	defer driver.Close()

	if err := driver.Run(ctx); err != nil && err != context.Canceled {
		log.Critical("Run failed: %v", err)
		os.Exit(1)
	}
}

func parseLevel(s string) utils.LogLevel {
	switch s {
	case "trace":
		return utils.TRACE
	case "debug":
		return utils.DEBUG
	case "info":
		return utils.INFO
	case "warn", "warning":
		return utils.WARN
	case "error":
		return utils.ERROR
	case "critical":
		return utils.CRITICAL
	default:
		return utils.INFO
	}
}
