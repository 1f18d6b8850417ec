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

package helpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/olahol/melody"
	"github.com/visual-logger/core/pkg/api/models"
	"github.com/visual-logger/core/pkg/helpers/syncutil"
)

// WebSocketTestServer is a bare melody server on /api that records the
// messages it receives.
type WebSocketTestServer struct {
	Server   *httptest.Server
	Melody   *melody.Melody
	received [][]byte
	mu       syncutil.Mutex
}

func NewWebSocketTestServer(t *testing.T, handler func(*melody.Session, []byte)) *WebSocketTestServer {
	t.Helper()

	wsts := &WebSocketTestServer{Melody: melody.New()}
	wsts.Melody.HandleMessage(func(session *melody.Session, msg []byte) {
		wsts.mu.Lock()
		wsts.received = append(wsts.received, msg)
		wsts.mu.Unlock()
		if handler != nil {
			handler(session, msg)
		}
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/api", func(w http.ResponseWriter, r *http.Request) {
		if err := wsts.Melody.HandleRequest(w, r); err != nil {
			t.Logf("websocket request failed: %v", err)
		}
	})
	wsts.Server = httptest.NewServer(mux)
	t.Cleanup(wsts.Close)
	return wsts
}

// Host returns the server's host:port.
func (wsts *WebSocketTestServer) Host() string {
	u, err := url.Parse(wsts.Server.URL)
	if err != nil {
		return ""
	}
	return u.Host
}

func (wsts *WebSocketTestServer) Received() [][]byte {
	wsts.mu.Lock()
	defer wsts.mu.Unlock()
	out := make([][]byte, len(wsts.received))
	copy(out, wsts.received)
	return out
}

func (wsts *WebSocketTestServer) Close() {
	wsts.Server.Close()
	_ = wsts.Melody.Close()
}

// RespondWith returns a handler answering every request with result, or
// with errObj when it is not nil.
func RespondWith(result any, errObj *models.ErrorObject) func(*melody.Session, []byte) {
	return func(session *melody.Session, msg []byte) {
		var req models.RequestObject
		if err := json.Unmarshal(msg, &req); err != nil || req.ID == nil {
			return
		}
		var data []byte
		if errObj != nil {
			data, _ = json.Marshal(models.ResponseErrorObject{JSONRPC: "2.0", ID: *req.ID, Error: errObj})
		} else {
			data, _ = json.Marshal(models.ResponseObject{JSONRPC: "2.0", ID: *req.ID, Result: result})
		}
		_ = session.Write(data)
	}
}
