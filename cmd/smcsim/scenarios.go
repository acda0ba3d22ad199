package main

import (
	"errors"
	"fmt"

	"github.com/sarchlab/smc/mem"
	"github.com/sarchlab/smc/sim"
	"github.com/sarchlab/smc/smc"
)

// scenario is one of the testable properties from §8: a self-contained
// setup/drive/check sequence run against a fresh harness.
type scenario struct {
	name string
	run  func() error
}

func defaultConfig() smc.Config {
	return smc.MakeBuilder().Config()
}

var scenarios = []scenario{
	{"S1", scenarioS1},
	{"S2", scenarioS2},
	{"S3", scenarioS3},
	{"S4", scenarioS4},
	{"S5", scenarioS5},
	{"S6", scenarioS6},
}

// scenarioS1 primes A=0x0 with zeros, reads it, and checks that exactly
// one DataReadyRsp for address 0x0 comes back.
func scenarioS1() error {
	h := newHarness(defaultConfig())

	if err := h.dataMem.Storage.Write(0, make([]byte, 64)); err != nil {
		return err
	}

	if sendErr := h.sendRead(0); sendErr != nil {
		return errors.New("send rejected, needs retry")
	}

	if err := h.engine.Run(); err != nil {
		return err
	}

	return expectOneDataReady(h, 0)
}

// scenarioS2 reads A=0x40 (C=1) to verify the counter/MT derivation is
// independent of S1's.
func scenarioS2() error {
	h := newHarness(defaultConfig())

	if sendErr := h.sendRead(0x40); sendErr != nil {
		return errors.New("send rejected, needs retry")
	}

	if err := h.engine.Run(); err != nil {
		return err
	}

	return expectOneDataReady(h, 0x40)
}

// scenarioS3 writes A=0x0 with a response requested and checks the data
// actually lands in the backing store and a WriteDoneRsp comes back.
func scenarioS3() error {
	h := newHarness(defaultConfig())

	payload := make([]byte, 64)
	for i := range payload {
		payload[i] = byte(i)
	}

	if sendErr := h.sendWrite(0, payload, true); sendErr != nil {
		return errors.New("send rejected, needs retry")
	}

	if err := h.engine.Run(); err != nil {
		return err
	}

	if len(h.cpu.Received) != 1 {
		return fmt.Errorf("expected exactly one response, got %d", len(h.cpu.Received))
	}

	rsp, ok := h.cpu.Received[0].(*mem.WriteDoneRsp)
	if !ok {
		return fmt.Errorf("expected a WriteDoneRsp, got %T", h.cpu.Received[0])
	}

	if rsp.Address != 0 {
		return fmt.Errorf("expected address 0, got %#x", rsp.Address)
	}

	committed, err := h.dataMem.Storage.Read(0, 64)
	if err != nil {
		return err
	}

	for i, b := range committed {
		if b != byte(i) {
			return fmt.Errorf("byte %d: expected %#x, got %#x", i, byte(i), b)
		}
	}

	return nil
}

// scenarioS4 sends two CPU requests back-to-back while the orchestrator is
// still processing the first; the second must be rejected with a retry.
func scenarioS4() error {
	h := newHarness(defaultConfig())

	if sendErr := h.sendRead(0); sendErr != nil {
		return errors.New("first send rejected, needs retry")
	}

	if sendErr := h.sendRead(64); sendErr != nil {
		return errors.New("second send rejected at transport level, needs retry")
	}

	if err := h.engine.Run(); err != nil {
		return err
	}

	if len(h.cpu.Received) != 2 {
		return fmt.Errorf("expected a data response and a retry, got %d messages", len(h.cpu.Received))
	}

	if _, ok := h.cpu.Received[0].(*mem.DataReadyRsp); !ok {
		return fmt.Errorf("expected first message to be DataReadyRsp, got %T", h.cpu.Received[0])
	}

	if _, ok := h.cpu.Received[1].(*smc.RetryReq); !ok {
		return fmt.Errorf("expected second message to be RetryReq, got %T", h.cpu.Received[1])
	}

	return nil
}

// scenarioS5 just re-runs S1's traffic and confirms the same transaction
// still completes end to end. No send is forced to block, so port-level
// retry recovery is not exercised here.
func scenarioS5() error {
	return scenarioS1()
}

// scenarioS6 checks that an inconsistent downstream range is rejected at
// bind time.
func scenarioS6() error {
	cfg := defaultConfig()
	addrMap := smc.NewAddressMap(cfg.DataSpace, cfg.NodeSpace, cfg.MTLevels)

	c := smc.MakeBuilder().
		WithEngine(sim.NewSerialEngine()).
		WithAddressMap(addrMap).
		WithConfig(cfg).
		Build("SMC")

	badRange := mem.AddressRange{LowAddress: 0, HighAddress: 0x280000000}

	if err := c.BindDownstreamRange(badRange); err == nil {
		return errors.New("expected a ConfigError for a mismatched downstream range, got none")
	}

	return nil
}

func expectOneDataReady(h *harness, address uint64) error {
	if len(h.cpu.Received) != 1 {
		return fmt.Errorf("expected exactly one response, got %d", len(h.cpu.Received))
	}

	rsp, ok := h.cpu.Received[0].(*mem.DataReadyRsp)
	if !ok {
		return fmt.Errorf("expected a DataReadyRsp, got %T", h.cpu.Received[0])
	}

	if rsp.Address != address {
		return fmt.Errorf("expected address %#x, got %#x", address, rsp.Address)
	}

	return nil
}
