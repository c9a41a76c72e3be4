package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"polystep/core"
	"polystep/host"
	"polystep/host/serial"
	"polystep/protocol"
)

var (
	device     = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud       = flag.Int("baud", 115200, "Baud rate (ignored for USB CDC)")
	configPath = flag.String("config", "", "Peripheral description JSON (optional)")
)

func main() {
	flag.Parse()

	cfg := core.DefaultConfig()
	if *configPath != "" {
		loaded, err := host.LoadConfigFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	serialCfg := serial.DefaultConfig(*device)
	serialCfg.Baud = *baud

	fmt.Printf("Connecting to peripheral on %s...\n", *device)
	port, err := serial.Open(serialCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer port.Close()

	client := host.NewClient(port, cfg)

	sw, err := client.Status()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: peripheral did not answer: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Connected: %d axes, %s\n", cfg.NumAxes, describeStatus(sw))

	fmt.Println("Enter commands (type 'help' for available commands, 'quit' to exit):")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]

		switch cmd {
		case "quit", "exit", "q":
			fmt.Println("Goodbye!")
			return

		case "help", "?":
			printHelp()

		case "status":
			if sw, err := client.Status(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			} else {
				fmt.Println(describeStatus(sw))
			}

		case "start":
			if sw, err := client.Start(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			} else {
				fmt.Println(describeStatus(sw))
			}

		case "stop":
			if sw, err := client.Stop(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			} else {
				fmt.Println(describeStatus(sw))
			}

		case "move":
			if err := sendMove(client, cfg, parts[1:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}

		default:
			fmt.Printf("Unknown command: %s (type 'help' for available commands)\n", cmd)
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("\nAvailable commands:")
	fmt.Println("  help                       - Show this help message")
	fmt.Println("  status                     - Query the peripheral status word")
	fmt.Println("  start                      - Enable trajectory execution")
	fmt.Println("  stop                       - Pause execution, discard partial writes")
	fmt.Println("  move TICKS C0[,C1[,C2]]... - Queue one move (one coefficient group per axis)")
	fmt.Println("  quit/exit/q                - Exit the program")
	fmt.Println()
	fmt.Println("Example for a 2-axis peripheral:")
	fmt.Println("  move 1000 65536,0,0 -32768,16,0")
	fmt.Println()
}

// sendMove parses "move TICKS C0[,C1[,C2]] ..." and streams it, splitting
// into segments if it exceeds the peripheral's tick limit.
func sendMove(client *host.Client, cfg core.Config, args []string) error {
	if len(args) != 1+cfg.NumAxes {
		return fmt.Errorf("want TICKS plus %d axis coefficient groups", cfg.NumAxes)
	}

	ticks, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("bad tick count %q: %w", args[0], err)
	}

	instr := core.MoveInstruction{
		Type:  protocol.InstrMove,
		Ticks: uint32(ticks),
		Axes:  make([]core.AxisCoeff, cfg.NumAxes),
	}
	for i, group := range args[1:] {
		coeff, err := parseCoeff(group)
		if err != nil {
			return fmt.Errorf("axis %d: %w", i, err)
		}
		instr.Axes[i] = coeff
	}

	if !host.CheckNyquist(instr, cfg) {
		return fmt.Errorf("move exceeds half a step per tick; re-plan with smaller coefficients")
	}

	path, err := host.SplitMove(instr, cfg.MaxTicks)
	if err != nil {
		return err
	}
	if err := client.SendPath(path); err != nil {
		return err
	}
	fmt.Printf("Queued %d segment(s)\n", len(path))
	return nil
}

// parseCoeff parses "C0", "C0,C1" or "C0,C1,C2".
func parseCoeff(s string) (core.AxisCoeff, error) {
	fields := strings.Split(s, ",")
	if len(fields) > 3 {
		return core.AxisCoeff{}, fmt.Errorf("too many coefficients in %q", s)
	}

	var vals [3]int32
	for i, f := range fields {
		v, err := strconv.ParseInt(f, 10, 32)
		if err != nil {
			return core.AxisCoeff{}, fmt.Errorf("bad coefficient %q: %w", f, err)
		}
		vals[i] = int32(v)
	}
	return core.AxisCoeff{C0: vals[0], C1: vals[1], C2: vals[2]}, nil
}

func describeStatus(sw protocol.StatusWord) string {
	var b strings.Builder
	if sw.Running() {
		b.WriteString("running")
	} else {
		b.WriteString("stopped")
	}
	fmt.Fprintf(&b, ", queue %d", sw.QueueDepth())
	if sw.QueueFull() {
		b.WriteString(" (full)")
	}
	if code := sw.Error(); code != protocol.ErrorNone {
		fmt.Fprintf(&b, ", error: %s", code)
	}
	return b.String()
}
