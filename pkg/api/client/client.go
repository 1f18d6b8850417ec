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

// Package client talks to a running instance's API over websocket.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/visual-logger/core/pkg/api/models"
	"github.com/visual-logger/core/pkg/config"
)

var (
	ErrRequestTimeout   = errors.New("request timed out")
	ErrInvalidParams    = errors.New("invalid params")
	ErrRequestCancelled = errors.New("request cancelled")
)

const APIPath = "/api"

// RPCError is an error object returned by the server.
type RPCError struct {
	Message string
	Code    int
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("%s (%d)", e.Message, e.Code)
}

type rpcResponse struct {
	Error   *models.ErrorObject `json:"error"`
	Result  json.RawMessage     `json:"result"`
	JSONRPC string              `json:"jsonrpc"`
	ID      uuid.UUID           `json:"id"`
}

type Client struct {
	url     url.URL
	timeout time.Duration
}

// New returns a client for the API at host:port.
func New(host string) *Client {
	return &Client{
		url:     url.URL{Scheme: "ws", Host: host, Path: APIPath},
		timeout: config.APIRequestTimeout,
	}
}

// NewLocal returns a client for the instance on this machine.
func NewLocal(cfg *config.Instance) *Client {
	return New("localhost:" + strconv.Itoa(cfg.APIPort()))
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, c.url.String(), nil)
	if resp != nil && resp.Body != nil {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Debug().Err(closeErr).Msg("error closing handshake body")
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", c.url.String(), err)
	}
	return conn, nil
}

func closeConn(conn *websocket.Conn) {
	if err := conn.Close(); err != nil {
		log.Warn().Err(err).Msg("error closing websocket")
	}
}

// readUntil reads messages until match returns true, the timeout passes or
// ctx is done. A zero timeout uses the client default; a negative one
// waits forever.
func (c *Client) readUntil(
	ctx context.Context,
	conn *websocket.Conn,
	timeout time.Duration,
	match func([]byte) bool,
) error {
	found := make(chan struct{})
	go func() {
		defer close(found)
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				log.Debug().Err(err).Msg("websocket read ended")
				return
			}
			if match(msg) {
				return
			}
		}
	}()

	var timer <-chan time.Time
	switch {
	case timeout == 0:
		timer = time.After(c.timeout)
	case timeout > 0:
		timer = time.After(timeout)
	}

	select {
	case <-found:
		return nil
	case <-timer:
		closeConn(conn)
		<-found
		return ErrRequestTimeout
	case <-ctx.Done():
		closeConn(conn)
		<-found
		return ErrRequestCancelled
	}
}

// Call sends one request and returns its raw result.
func (c *Client) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	id := uuid.New()
	req := models.RequestObject{JSONRPC: "2.0", ID: &id, Method: method}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
		}
		req.Params = raw
	}

	conn, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer closeConn(conn)

	if err := conn.WriteJSON(req); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	var resp *rpcResponse
	err = c.readUntil(ctx, conn, 0, func(msg []byte) bool {
		var m rpcResponse
		if json.Unmarshal(msg, &m) != nil || m.JSONRPC != "2.0" || m.ID != id {
			return false
		}
		resp = &m
		return true
	})
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, ErrRequestTimeout
	}
	if resp.Error != nil {
		return nil, &RPCError{Code: resp.Error.Code, Message: resp.Error.Message}
	}
	return resp.Result, nil
}

// WaitNotification blocks until a notification with one of the given
// methods arrives.
func (c *Client) WaitNotification(
	ctx context.Context,
	timeout time.Duration,
	methods ...string,
) (models.Notification, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return models.Notification{}, err
	}
	defer closeConn(conn)

	var notif *models.Notification
	err = c.readUntil(ctx, conn, timeout, func(msg []byte) bool {
		var m models.RequestObject
		if json.Unmarshal(msg, &m) != nil || m.JSONRPC != "2.0" || m.ID != nil {
			return false
		}
		if !slices.Contains(methods, m.Method) {
			return false
		}
		notif = &models.Notification{Method: m.Method, Params: m.Params}
		return true
	})
	if err != nil {
		return models.Notification{}, err
	}
	if notif == nil {
		return models.Notification{}, ErrRequestTimeout
	}
	return *notif, nil
}

// IsServiceRunning reports whether an API is accepting connections.
func (c *Client) IsServiceRunning(ctx context.Context) bool {
	conn, err := c.dial(ctx)
	if err != nil {
		return false
	}
	closeConn(conn)
	return true
}
