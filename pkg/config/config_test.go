/*
 * Copyright 2026 Devicewatch Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSettings struct {
	Name string `json:"name"`
	Port int    `json:"port"`
}

type validatedSettings struct {
	testSettings
}

var errPortRequired = errors.New("port is required")

func (s *validatedSettings) Validate() error {
	if s.Port == 0 {
		return errPortRequired
	}

	return nil
}

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	return path
}

func TestLoadAndValidate(t *testing.T) {
	path := writeConfigFile(t, `{"name": "watcher", "port": 5150}`)

	var settings testSettings

	err := NewConfig().LoadAndValidate(context.Background(), path, &settings)
	require.NoError(t, err)
	assert.Equal(t, testSettings{Name: "watcher", Port: 5150}, settings)
}

func TestLoadMissingFile(t *testing.T) {
	var settings testSettings

	err := NewConfig().LoadAndValidate(context.Background(), filepath.Join(t.TempDir(), "absent.json"), &settings)
	assert.ErrorIs(t, err, ErrConfigRead)
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeConfigFile(t, `{"name": "watcher",`)

	var settings testSettings

	err := NewConfig().LoadAndValidate(context.Background(), path, &settings)
	assert.ErrorIs(t, err, ErrConfigParse)
}

func TestLoadAndValidateRunsValidator(t *testing.T) {
	path := writeConfigFile(t, `{"name": "watcher"}`)

	var settings validatedSettings

	err := NewConfig().LoadAndValidate(context.Background(), path, &settings)
	assert.ErrorIs(t, err, errPortRequired)
}

func TestValidateConfigSkipsNonValidators(t *testing.T) {
	assert.NoError(t, ValidateConfig(&testSettings{}))
}
