// Copyright (C) 2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/banditdb/banditstore"
	"github.com/ava-labs/banditdb/database/memdb"
	"github.com/ava-labs/banditdb/utils/logging"

	jsonutil "github.com/ava-labs/banditdb/utils/json"
)

func newTestService(t *testing.T) *Service {
	store, err := banditstore.New(logging.NoLog{}, "test", prometheus.NewRegistry(), memdb.New())
	require.NoError(t, err)
	return &Service{
		log:   logging.NoLog{},
		store: store,
	}
}

func TestServiceLifecycle(t *testing.T) {
	require := require.New(t)
	s := newTestService(t)

	initReply := InitReply{}
	require.NoError(s.Init(nil, &InitArgs{
		Key:   "traffic",
		NArms: 3,
		C:     2,
	}, &initReply))
	require.Equal(jsonutil.Uint32(3), initReply.NArms)

	statsReply := ArmStatsReply{}
	require.NoError(s.Record(nil, &RecordArgs{
		Key:    "traffic",
		Arm:    1,
		Reward: 10,
	}, &statsReply))
	require.Equal(jsonutil.Uint64(1), statsReply.Count)
	require.Equal(jsonutil.Float64(10), statsReply.Mean)

	require.NoError(s.Set(nil, &SetArgs{
		Key:   "traffic",
		Arm:   0,
		Count: 5,
		Mean:  2.5,
	}, &statsReply))
	require.Equal(jsonutil.Uint64(5), statsReply.Count)

	countsReply := CountsReply{}
	require.NoError(s.Counts(nil, &KeyArgs{Key: "traffic"}, &countsReply))
	require.Equal([]jsonutil.Uint64{5, 1, 0}, countsReply.Counts)

	meansReply := MeansReply{}
	require.NoError(s.Means(nil, &KeyArgs{Key: "traffic"}, &meansReply))
	require.Equal([]jsonutil.Float64{2.5, 10, 0}, meansReply.Means)

	pickReply := PickReply{}
	require.NoError(s.Pick(nil, &KeyArgs{Key: "traffic"}, &pickReply))
	// Arm 2 is the only unpulled arm, so it must be forced.
	require.Equal(jsonutil.Uint32(2), pickReply.Arm)

	boundsReply := BoundsReply{}
	require.NoError(s.Bounds(nil, &KeyArgs{Key: "traffic"}, &boundsReply))
	require.Len(boundsReply.Bounds, 3)

	keysReply := KeysReply{}
	require.NoError(s.Keys(nil, nil, &keysReply))
	require.Equal([]string{"traffic"}, keysReply.Keys)

	digestReply := DigestReply{}
	require.NoError(s.Digest(nil, &KeyArgs{Key: "traffic"}, &digestReply))
	require.Len(digestReply.Digest, 64)

	footprintReply := FootprintReply{}
	require.NoError(s.Footprint(nil, &KeyArgs{Key: "traffic"}, &footprintReply))
	require.NotZero(footprintReply.Bytes)

	successReply := SuccessResponse{}
	require.NoError(s.Drop(nil, &KeyArgs{Key: "traffic"}, &successReply))
	require.True(successReply.Success)

	require.Error(s.Pick(nil, &KeyArgs{Key: "traffic"}, &pickReply))
}

func TestServiceErrorsPropagate(t *testing.T) {
	require := require.New(t)
	s := newTestService(t)

	reply := ArmStatsReply{}
	err := s.Record(nil, &RecordArgs{Key: "missing", Arm: 0, Reward: 1}, &reply)
	require.ErrorIs(err, banditstore.ErrNotInitialized)
}

func TestServiceOverHTTP(t *testing.T) {
	require := require.New(t)

	store, err := banditstore.New(logging.NoLog{}, "test", prometheus.NewRegistry(), memdb.New())
	require.NoError(err)
	handler, err := NewService(logging.NoLog{}, store)
	require.NoError(err)

	body, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "banditdb.init",
		"params": map[string]string{
			"key":   "traffic",
			"narms": "4",
			"c":     "2",
		},
	})
	require.NoError(err)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/ext/bandit", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(w, r)
	require.Equal(200, w.Code)

	response := struct {
		Result InitReply `json:"result"`
	}{}
	require.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(jsonutil.Uint32(4), response.Result.NArms)

	counts, err := store.Counts("traffic")
	require.NoError(err)
	require.Len(counts, 4)
}
