// -*- Mode: Go; indent-tabs-mode: t -*-
//
// Copyright (C) 2025 Marek Vales
//
// SPDX-License-Identifier: Apache-2.0

// Package driver hosts the panel binding engine inside an EdgeX device
// service: the ProtocolDriver wires configuration, sink, devices and the
// framework together and bridges SDK read/write commands to registers.
package driver

import (
	"fmt"
	"sync"
	"time"

	"github.com/edgexfoundry/device-sdk-go/v4/pkg/interfaces"
	dsModels "github.com/edgexfoundry/device-sdk-go/v4/pkg/models"
	"github.com/edgexfoundry/go-mod-core-contracts/v4/clients/logger"
	"github.com/edgexfoundry/go-mod-core-contracts/v4/models"

	"github.com/marekvales/device_panel_go/internal/config"
	"github.com/marekvales/device_panel_go/internal/device"
	"github.com/marekvales/device_panel_go/internal/framework"
	"github.com/marekvales/device_panel_go/internal/module"
	"github.com/marekvales/device_panel_go/internal/resources"
	"github.com/marekvales/device_panel_go/internal/sink"
)

const configPath = "./res/configuration.yaml"

type PanelDriver struct {
	lc      logger.LoggingClient
	asyncCh chan<- *dsModels.AsyncValues
	locker  sync.Mutex
	sdk     interfaces.DeviceServiceSDK

	cfg    *config.PanelServiceConfig
	snk    sink.Sink
	fw     *framework.Framework
	runner *framework.Runner
	mod    *module.Module
}

var once sync.Once
var drv *PanelDriver

func NewPanelDriver() interfaces.ProtocolDriver {
	once.Do(func() {
		drv = new(PanelDriver)
	})
	return drv
}

func (d *PanelDriver) Initialize(sdk interfaces.DeviceServiceSDK) error {
	d.sdk = sdk
	d.lc = sdk.LoggingClient()
	d.asyncCh = sdk.AsyncValuesChannel()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	d.cfg = cfg

	snk, err := newSink(cfg.Sink)
	if err != nil {
		return fmt.Errorf("init sink: %w", err)
	}
	d.snk = snk

	d.fw = framework.New(d.lc, d.snk)
	d.fw.On(framework.EventLoadError, func(payload interface{}) {
		d.lc.Errorf("load error: %v", payload)
	})
	d.fw.On(framework.EventConfigError, func(payload interface{}) {
		d.lc.Errorf("config error: %v", payload)
	})
	d.fw.On(framework.EventRefreshError, func(payload interface{}) {
		d.lc.Warnf("refresh error: %v", payload)
	})
	// Each read cycle is forwarded upstream as async values.
	d.fw.On(framework.EventRefresh, func(payload interface{}) {
		values, ok := payload.(map[string]interface{})
		if !ok {
			return
		}
		d.pushAsyncValues(values)
	})

	devices := make([]device.Device, 0, len(cfg.Devices))
	for _, dc := range cfg.Devices {
		dev, err := device.New(dc)
		if err != nil {
			return fmt.Errorf("init device %s: %w", dc.Name, err)
		}
		devices = append(devices, dev)
	}
	d.fw.SelectDevices(devices)

	if cfg.Module != "" {
		loader := resources.NewFileLoader(cfg.ModuleDir)
		renderer := resources.NewHTMLRenderer()
		mod, err := module.Load(d.lc, loader, renderer, d.fw, d.snk, cfg.Module)
		if err != nil {
			return fmt.Errorf("load module %s: %w", cfg.Module, err)
		}
		d.mod = mod
	}

	d.runner = framework.NewRunner(d.fw, time.Duration(cfg.RefreshRateMs)*time.Millisecond)
	return nil
}

func newSink(cfg config.SinkConfig) (sink.Sink, error) {
	switch cfg.Type {
	case "", "memory":
		return sink.NewMemSink(), nil
	case "mqtt":
		return sink.NewMQTTSink(sink.ClientOptions{
			Broker:      cfg.Broker,
			ClientID:    cfg.ClientID,
			Username:    cfg.Username,
			Password:    cfg.Password,
			TopicPrefix: cfg.TopicPrefix,
			Qos:         cfg.Qos,
		})
	default:
		return nil, fmt.Errorf("unknown sink type %s", cfg.Type)
	}
}

func (d *PanelDriver) Start() error {
	d.runner.Start()
	d.lc.Infof("panel read cycle started, period %dms", d.cfg.RefreshRateMs)
	return nil
}

// pushAsyncValues forwards a register snapshot to the SDK as async readings.
func (d *PanelDriver) pushAsyncValues(values map[string]interface{}) {
	dev, ok := d.fw.ActiveDevice()
	if !ok {
		return
	}
	cvs := make([]*dsModels.CommandValue, 0, len(values))
	for name, v := range values {
		cv, err := newStringCommandValue(name, v)
		if err != nil {
			d.lc.Warnf("async value %s: %v", name, err)
			continue
		}
		cvs = append(cvs, cv)
	}
	if len(cvs) == 0 {
		return
	}
	d.asyncCh <- &dsModels.AsyncValues{
		DeviceName:    dev.Name(),
		CommandValues: cvs,
	}
}

func (d *PanelDriver) HandleReadCommands(deviceName string, protocols map[string]models.ProtocolProperties,
	reqs []dsModels.CommandRequest) ([]*dsModels.CommandValue, error) {
	d.locker.Lock()
	defer d.locker.Unlock()

	dev, ok := d.fw.ActiveDevice()
	if !ok {
		return nil, fmt.Errorf("no device selected")
	}
	snapshot, err := dev.ReadRegisters()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dev.Name(), err)
	}

	res := make([]*dsModels.CommandValue, 0, len(reqs))
	for _, req := range reqs {
		raw, ok := snapshot[req.DeviceResourceName]
		if !ok {
			return nil, fmt.Errorf("register %s not reported by %s", req.DeviceResourceName, dev.Name())
		}
		cv, err := newTypedCommandValue(req.DeviceResourceName, req.Type, raw)
		if err != nil {
			return nil, err
		}
		res = append(res, cv)
	}
	return res, nil
}

func (d *PanelDriver) HandleWriteCommands(deviceName string, protocols map[string]models.ProtocolProperties,
	reqs []dsModels.CommandRequest, params []*dsModels.CommandValue) error {
	d.locker.Lock()
	defer d.locker.Unlock()

	dev, ok := d.fw.ActiveDevice()
	if !ok {
		return fmt.Errorf("no device selected")
	}
	for _, param := range params {
		value, err := nativeValue(param)
		if err != nil {
			return fmt.Errorf("invalid write for %s: %w", param.DeviceResourceName, err)
		}
		d.fw.Fire(framework.EventConfigureDevice, param.DeviceResourceName)
		if err := dev.WriteRegister(param.DeviceResourceName, value); err != nil {
			d.fw.Fire(framework.EventConfigError, fmt.Sprintf("write %s: %v", param.DeviceResourceName, err))
			return fmt.Errorf("write %s: %w", param.DeviceResourceName, err)
		}
		d.fw.Fire(framework.EventDeviceConfigured, param.DeviceResourceName)
	}
	return nil
}

func (d *PanelDriver) Stop(force bool) error {
	d.lc.Info("PanelDriver is stopping")
	if d.runner != nil {
		d.runner.Stop()
	}
	if d.mod != nil {
		d.mod.Unload()
	}
	if d.fw != nil {
		d.fw.CloseDevices()
	}
	if m, ok := d.snk.(*sink.MQTTSink); ok {
		m.Disconnect(250)
	}
	return nil
}

func (d *PanelDriver) AddDevice(deviceName string, protocols map[string]models.ProtocolProperties, adminState models.AdminState) error {
	d.lc.Debugf("a new Device is added: %s", deviceName)
	return nil
}

func (d *PanelDriver) UpdateDevice(deviceName string, protocols map[string]models.ProtocolProperties, adminState models.AdminState) error {
	d.lc.Debugf("Device %s is updated", deviceName)
	return nil
}

func (d *PanelDriver) RemoveDevice(deviceName string, protocols map[string]models.ProtocolProperties) error {
	d.lc.Debugf("Device %s is removed", deviceName)
	return nil
}

func (d *PanelDriver) Discover() error {
	return fmt.Errorf("driver's Discover function isn't implemented")
}

func (d *PanelDriver) ValidateDevice(dev models.Device) error {
	d.lc.Debug("Driver's ValidateDevice function isn't implemented")
	return nil
}
