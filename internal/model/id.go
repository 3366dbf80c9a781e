// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// idSeq breaks ties between IDs generated within the same millisecond.
var idSeq atomic.Uint64

// NewID generates a unique, time-ordered identifier for messages and
// locally created sessions. The epoch-millis base36 prefix keeps IDs
// sortable by creation time; the UUID suffix makes collisions within a
// process run practically impossible.
func NewID() string {
	ms := strconv.FormatInt(time.Now().UnixMilli(), 36)
	seq := strconv.FormatUint(idSeq.Add(1), 36)
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return ms + seq + "_" + suffix
}

// NewLocalSessionID generates the identifier used for a session created
// without backend confirmation.
func NewLocalSessionID() string {
	return "chat_" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "_" + strconv.FormatUint(idSeq.Add(1), 36)
}
