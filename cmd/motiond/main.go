// Command motiond is the RP2040 firmware entry point: it wires the axes,
// kinematics, block pipeline, planner, block manager, ramp generator and
// debug console together over real STEP/DIR/endstop GPIO.
//
//go:build rp2040 || rp2350

package main

import (
	"machine"
	"time"

	"motioncore/axes"
	"motioncore/block"
	"motioncore/blockmanager"
	"motioncore/console"
	"motioncore/kinematics"
	"motioncore/max6675"
	"motioncore/motionargs"
	"motioncore/motordrv"
	"motioncore/planner"
	"motioncore/rampgen"
	"motioncore/rampgen/rp2040"
	"motioncore/sharpmem"
	"motioncore/thermal"
	"motioncore/tmc2209"
	"tinygo.org/x/tinyfont"
)

func main() {
	// Step 1. Describe the two axes this board drives (X, Y on a Cartesian
	// gantry). Adjust StepsPerRot/UnitsPerRot/MaxSpeedUps for your hardware.
	params := axes.NewAxesParams([]axes.AxisParams{
		axes.NewAxisParams(axes.AxisParams{
			StepsPerRot: 3200, UnitsPerRot: 40, MaxSpeedUps: 250, MaxAccelUps2: 1500, MaxCurrentA: 2.0,
			IsPrimaryAxis: true, IsDominantAxis: true,
			MinValValid: true, MinVal: 0, MaxValValid: true, MaxVal: 300,
		}),
		axes.NewAxisParams(axes.AxisParams{
			StepsPerRot: 3200, UnitsPerRot: 40, MaxSpeedUps: 250, MaxAccelUps2: 1500, MaxCurrentA: 2.0,
			IsPrimaryAxis: true,
			MinValValid: true, MinVal: 0, MaxValValid: true, MaxVal: 300,
		}),
	}, 0.1, 0.05)

	// Step 2. Set up the STEP/DIR pins per axis and bind them to a
	// direct-register GPIO backend (needed for the tick path's minimum
	// pulse width).
	gpio := rp2040.NewGPIOBackend()
	gpio.Configure(0, rp2040.StepperPins{Step: machine.GPIO2, Dir: machine.GPIO3})
	gpio.Configure(1, rp2040.StepperPins{Step: machine.GPIO4, Dir: machine.GPIO5})

	// Step 3. Wire up limit switches.
	endstops := rp2040.NewEndstops()
	endstops.Configure(0, rp2040.EndstopPins{Min: machine.GPIO6, Max: machine.NoPin})
	endstops.Configure(1, rp2040.EndstopPins{Min: machine.GPIO7, Max: machine.NoPin})

	// Step 4a. Bind each axis's TMC2209 driver over UART for run-current
	// control; the ramp generator never talks to these, only STEP/DIR.
	uartComm := tmc2209.NewUARTComm(*machine.UART1, 0)
	_ = uartComm.Setup()
	var currentBank motordrv.Bank
	currentBank.SetDriver(0, tmc2209.NewTMC2209(uartComm, 0), 2.0)
	currentBank.SetDriver(1, tmc2209.NewTMC2209(uartComm, 1), 2.0)

	// Step 4c. Bind the hotend thermocouple and gate extrude moves on a
	// minimum temperature.
	thermoSPI := machine.SPI0
	thermoSPI.Configure(machine.SPIConfig{Frequency: 4_000_000, Mode: 0})
	thermoCS := machine.GPIO9
	thermoCS.Configure(machine.PinConfig{Mode: machine.PinOutput})
	thermoCS.High()
	hotend := thermal.NewGuard(thermal.Max6675Reader{Device: max6675.NewDevice(*thermoSPI, thermoCS)}, 180)

	// Step 4d. Build the motion-control stack: pipeline, planner, block
	// manager, ramp generator.
	state := &axes.AxesState{}
	pipe := block.NewPipeline(block.DefaultPipelineCapacity)
	stepGenPeriodNs := uint32(20_000)
	pl := planner.NewPlanner(pipe, params, stepGenPeriodNs)
	bm := blockmanager.NewBlockManager(kinematics.XYZ{}, params, state, pl, motionargs.DefaultConfig())
	bm.Thermal = hotend
	gen := rampgen.NewGenerator(pipe, gpio, endstops, stepGenPeriodNs)

	// Step 5. Start the debug console over USB CDC for manual jogging, and
	// a status display on an attached Sharp memory LCD.
	shell := console.NewShell(bm)
	lcdSPI := machine.SPI1
	lcdSPI.Configure(machine.SPIConfig{Frequency: 2_000_000, Mode: 0})
	lcdCS := machine.GPIO10
	lcdCS.Configure(machine.PinConfig{Mode: machine.PinOutput})
	lcd := sharpmem.New(*lcdSPI, lcdCS)
	lcd.Configure(sharpmem.ConfigLS027B7DH01)
	display := console.NewStatusDisplay(&lcd, &tinyfont.TomThumb)

	// Step 6. Run the ramp generator on its own ticker goroutine; the
	// tick path never allocates or blocks, so a time.Ticker-paced
	// goroutine is an acceptable stand-in for a hardware timer IRQ.
	go func() {
		ticker := time.NewTicker(time.Duration(stepGenPeriodNs) * time.Nanosecond)
		defer ticker.Stop()
		for range ticker.C {
			gen.Tick()
		}
	}()

	// Step 7. Service the block splitter and debug console from the main
	// loop — never from the tick path.
	machine.Serial.Configure(machine.UARTConfig{})
	line := make([]byte, 0, 128)
	for {
		if _, err := bm.PumpBlockSplitter(); err != nil {
			println("splitter error:", err.Error())
		}
		currentBank.Drain(&bm.MotorCurrent)
		display.Refresh(state.UnitsFromOrigin.Get(0), state.UnitsFromOrigin.Get(1), state.UnitsFromOrigin.Get(2), bm.IsBusy())
		_ = lcd.Display()

		for machine.Serial.Buffered() > 0 {
			b, _ := machine.Serial.ReadByte()
			if b == '\n' || b == '\r' {
				if len(line) > 0 {
					reply := shell.Execute(string(line))
					println(reply)
					line = line[:0]
				}
				continue
			}
			line = append(line, b)
		}

		time.Sleep(time.Millisecond)
	}
}
