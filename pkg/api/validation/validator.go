// Visual Logger
// Copyright (c) 2026 The Visual Logger Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Visual Logger.
//
// Visual Logger is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Visual Logger is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Visual Logger.  If not, see <http://www.gnu.org/licenses/>.

// Package validation provides validation for API request parameters using
// go-playground/validator with custom validators for library paths and
// game IDs.
package validation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrMissingParams = errors.New("missing params")
	ErrInvalidParams = errors.New("invalid params")
)

type contextKey struct{}

var validateCtxKey = contextKey{}

// Validator handles validation of API parameters.
type Validator struct {
	validate *validator.Validate
}

// Context provides runtime context for validation.
type Context struct {
	GameIDs []string
}

func NewContext(gameIDs []string) *Context {
	return &Context{GameIDs: gameIDs}
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("abspath", validateAbsPath)
	_ = v.RegisterValidation("notblank", validateNotBlank)
	_ = v.RegisterValidationCtx("game", validateGame)

	return &Validator{validate: v}
}

// DefaultValidator is a shared validator instance for API use.
var DefaultValidator = NewValidator()

func (v *Validator) Validate(params any) error {
	return v.ValidateCtx(context.Background(), params, nil)
}

// ValidateCtx validates a struct with context and returns a formatted error.
func (v *Validator) ValidateCtx(ctx context.Context, params any, vctx *Context) error {
	ctxVal := context.WithValue(ctx, validateCtxKey, vctx)
	if err := v.validate.StructCtx(ctxVal, params); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return NewError(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// ValidateAndUnmarshal unmarshals JSON params and validates them.
// Returns ErrMissingParams if params is empty, ErrInvalidParams if unmarshal
// fails, or an Error if validation fails.
func ValidateAndUnmarshal[T any](params json.RawMessage, dest *T) error {
	return ValidateAndUnmarshalCtx(context.Background(), params, dest, nil)
}

func ValidateAndUnmarshalCtx[T any](ctx context.Context, params json.RawMessage, dest *T, vctx *Context) error {
	if len(params) == 0 {
		return ErrMissingParams
	}
	if err := json.Unmarshal(params, dest); err != nil {
		return ErrInvalidParams
	}
	return DefaultValidator.ValidateCtx(ctx, dest, vctx)
}

func validateAbsPath(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return filepath.IsAbs(val)
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// validateGame checks the game ID against the known games, when the
// caller supplied them.
func validateGame(ctx context.Context, fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	vctx, ok := ctx.Value(validateCtxKey).(*Context)
	if !ok || vctx == nil {
		return true
	}
	for _, id := range vctx.GameIDs {
		if id == val {
			return true
		}
	}
	return false
}
