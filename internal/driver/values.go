// -*- Mode: Go; indent-tabs-mode: t -*-
//
// Copyright (C) 2025 Marek Vales
//
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"fmt"
	"strconv"

	dsModels "github.com/edgexfoundry/device-sdk-go/v4/pkg/models"
	"github.com/edgexfoundry/go-mod-core-contracts/v4/common"
)

// newStringCommandValue wraps a raw register value as a string reading, the
// form async snapshots are reported in.
func newStringCommandValue(resourceName string, raw interface{}) (*dsModels.CommandValue, error) {
	cv, err := dsModels.NewCommandValue(resourceName, common.ValueTypeString, fmt.Sprintf("%v", raw))
	if err != nil {
		return nil, fmt.Errorf("creating string CommandValue for %s: %w", resourceName, err)
	}
	return cv, nil
}

// newTypedCommandValue parses a raw register value into the value type the
// command request asks for.
func newTypedCommandValue(resourceName, valueType string, raw interface{}) (*dsModels.CommandValue, error) {
	strVal := fmt.Sprintf("%v", raw)
	var (
		value interface{}
		err   error
	)
	switch valueType {
	case common.ValueTypeString:
		value = strVal
	case common.ValueTypeBool:
		value, err = strconv.ParseBool(strVal)
	case common.ValueTypeFloat32:
		var f float64
		if f, err = strconv.ParseFloat(strVal, 32); err == nil {
			value = float32(f)
		}
	case common.ValueTypeFloat64:
		value, err = strconv.ParseFloat(strVal, 64)
	case common.ValueTypeInt32:
		var n int64
		if n, err = strconv.ParseInt(strVal, 10, 32); err == nil {
			value = int32(n)
		}
	case common.ValueTypeInt64:
		value, err = strconv.ParseInt(strVal, 10, 64)
	case common.ValueTypeUint32:
		var n uint64
		if n, err = strconv.ParseUint(strVal, 10, 32); err == nil {
			value = uint32(n)
		}
	case common.ValueTypeUint64:
		value, err = strconv.ParseUint(strVal, 10, 64)
	default:
		return nil, fmt.Errorf("unsupported value type %s for %s", valueType, resourceName)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s as %s from %q: %w", resourceName, valueType, strVal, err)
	}
	cv, err := dsModels.NewCommandValue(resourceName, valueType, value)
	if err != nil {
		return nil, fmt.Errorf("creating %s CommandValue for %s: %w", valueType, resourceName, err)
	}
	return cv, nil
}

// nativeValue unwraps a CommandValue into the plain value written to a
// register.
func nativeValue(param *dsModels.CommandValue) (interface{}, error) {
	switch param.Type {
	case common.ValueTypeString:
		return param.StringValue()
	case common.ValueTypeBool:
		return param.BoolValue()
	case common.ValueTypeFloat32:
		return param.Float32Value()
	case common.ValueTypeFloat64:
		return param.Float64Value()
	case common.ValueTypeInt32:
		return param.Int32Value()
	case common.ValueTypeInt64:
		return param.Int64Value()
	case common.ValueTypeUint32:
		return param.Uint32Value()
	case common.ValueTypeUint64:
		return param.Uint64Value()
	default:
		return nil, fmt.Errorf("unsupported value type %s", param.Type)
	}
}
