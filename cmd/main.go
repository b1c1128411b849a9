// -*- Mode: Go; indent-tabs-mode: t -*-
//
// Copyright (C) 2025 Marek Vales
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/edgexfoundry/device-sdk-go/v4/pkg/startup"

	"github.com/marekvales/device_panel_go/internal/driver"
)

const (
	serviceName string = "device-panel"
	version     string = "0.1.0"
)

func main() {
	d := driver.NewPanelDriver()
	startup.Bootstrap(serviceName, version, d)
}
