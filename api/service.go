// Copyright (C) 2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package api exposes the bandit store over JSON-RPC
package api

import (
	"encoding/hex"
	"net/http"

	"github.com/gorilla/rpc/v2"
	"go.uber.org/zap"

	"github.com/ava-labs/banditdb/banditstore"
	"github.com/ava-labs/banditdb/utils/logging"
	"github.com/ava-labs/banditdb/utils/metric"

	rpcjson "github.com/gorilla/rpc/v2/json2"
	jsonutil "github.com/ava-labs/banditdb/utils/json"
)

// Service is the RPC interface to a bandit store
type Service struct {
	log   logging.Logger
	store *banditstore.Store
}

// NewService returns an http handler serving the banditdb.* RPC namespace
func NewService(log logging.Logger, store *banditstore.Store, interceptors ...metric.APIInterceptor) (http.Handler, error) {
	server := rpc.NewServer()
	codec := rpcjson.NewCodec()
	server.RegisterCodec(codec, "application/json")
	server.RegisterCodec(codec, "application/json;charset=UTF-8")
	for _, interceptor := range interceptors {
		server.RegisterInterceptFunc(interceptor.InterceptRequest)
		server.RegisterAfterFunc(interceptor.AfterRequest)
	}
	s := &Service{
		log:   log,
		store: store,
	}
	return server, server.RegisterService(s, "banditdb")
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type InitArgs struct {
	Key   string           `json:"key"`
	NArms jsonutil.Uint32  `json:"narms"`
	C     jsonutil.Float64 `json:"c"`
}

type InitReply struct {
	NArms jsonutil.Uint32 `json:"narms"`
}

// Init creates or re-zeroes the bandit at a key
func (s *Service) Init(_ *http.Request, args *InitArgs, reply *InitReply) error {
	s.log.Debug("API called",
		zap.String("service", "banditdb"),
		zap.String("method", "init"),
		zap.String("key", args.Key),
	)

	narms, err := s.store.Init(args.Key, uint32(args.NArms), float64(args.C))
	if err != nil {
		return err
	}
	reply.NArms = jsonutil.Uint32(narms)
	return nil
}

type RecordArgs struct {
	Key    string           `json:"key"`
	Arm    jsonutil.Uint32  `json:"arm"`
	Reward jsonutil.Float64 `json:"reward"`
}

type ArmStatsReply struct {
	Count jsonutil.Uint64  `json:"count"`
	Mean  jsonutil.Float64 `json:"mean"`
}

// Record adds a reward observation for one arm
func (s *Service) Record(_ *http.Request, args *RecordArgs, reply *ArmStatsReply) error {
	s.log.Debug("API called",
		zap.String("service", "banditdb"),
		zap.String("method", "record"),
		zap.String("key", args.Key),
	)

	count, mean, err := s.store.Record(args.Key, uint32(args.Arm), float64(args.Reward))
	if err != nil {
		return err
	}
	reply.Count = jsonutil.Uint64(count)
	reply.Mean = jsonutil.Float64(mean)
	return nil
}

type SetArgs struct {
	Key   string           `json:"key"`
	Arm   jsonutil.Uint32  `json:"arm"`
	Count jsonutil.Uint64  `json:"count"`
	Mean  jsonutil.Float64 `json:"mean"`
}

// Set overwrites the stats of one arm
func (s *Service) Set(_ *http.Request, args *SetArgs, reply *ArmStatsReply) error {
	s.log.Debug("API called",
		zap.String("service", "banditdb"),
		zap.String("method", "set"),
		zap.String("key", args.Key),
	)

	count, mean, err := s.store.Set(args.Key, uint32(args.Arm), uint64(args.Count), float64(args.Mean))
	if err != nil {
		return err
	}
	reply.Count = jsonutil.Uint64(count)
	reply.Mean = jsonutil.Float64(mean)
	return nil
}

type KeyArgs struct {
	Key string `json:"key"`
}

type PickReply struct {
	Arm jsonutil.Uint32 `json:"arm"`
}

// Pick selects an arm of the bandit at a key
func (s *Service) Pick(_ *http.Request, args *KeyArgs, reply *PickReply) error {
	s.log.Debug("API called",
		zap.String("service", "banditdb"),
		zap.String("method", "pick"),
		zap.String("key", args.Key),
	)

	arm, err := s.store.Pick(args.Key)
	if err != nil {
		return err
	}
	reply.Arm = jsonutil.Uint32(arm)
	return nil
}

type CountsReply struct {
	Counts []jsonutil.Uint64 `json:"counts"`
}

// Counts returns the pull count of every arm
func (s *Service) Counts(_ *http.Request, args *KeyArgs, reply *CountsReply) error {
	s.log.Debug("API called",
		zap.String("service", "banditdb"),
		zap.String("method", "counts"),
		zap.String("key", args.Key),
	)

	counts, err := s.store.Counts(args.Key)
	if err != nil {
		return err
	}
	reply.Counts = make([]jsonutil.Uint64, len(counts))
	for i, count := range counts {
		reply.Counts[i] = jsonutil.Uint64(count)
	}
	return nil
}

type MeansReply struct {
	Means []jsonutil.Float64 `json:"means"`
}

// Means returns the mean reward of every arm
func (s *Service) Means(_ *http.Request, args *KeyArgs, reply *MeansReply) error {
	s.log.Debug("API called",
		zap.String("service", "banditdb"),
		zap.String("method", "means"),
		zap.String("key", args.Key),
	)

	means, err := s.store.Means(args.Key)
	if err != nil {
		return err
	}
	reply.Means = make([]jsonutil.Float64, len(means))
	for i, mean := range means {
		reply.Means[i] = jsonutil.Float64(mean)
	}
	return nil
}

type BoundsReply struct {
	Bounds []jsonutil.Float64 `json:"bounds"`
}

// Bounds returns the current confidence bound of every arm
func (s *Service) Bounds(_ *http.Request, args *KeyArgs, reply *BoundsReply) error {
	s.log.Debug("API called",
		zap.String("service", "banditdb"),
		zap.String("method", "bounds"),
		zap.String("key", args.Key),
	)

	bounds, err := s.store.Bounds(args.Key)
	if err != nil {
		return err
	}
	reply.Bounds = make([]jsonutil.Float64, len(bounds))
	for i, bound := range bounds {
		reply.Bounds[i] = jsonutil.Float64(bound)
	}
	return nil
}

// Drop deletes the bandit at a key
func (s *Service) Drop(_ *http.Request, args *KeyArgs, reply *SuccessResponse) error {
	s.log.Debug("API called",
		zap.String("service", "banditdb"),
		zap.String("method", "drop"),
		zap.String("key", args.Key),
	)

	if err := s.store.Drop(args.Key); err != nil {
		return err
	}
	reply.Success = true
	return nil
}

type KeysReply struct {
	Keys []string `json:"keys"`
}

// Keys lists every live key in ascending order
func (s *Service) Keys(_ *http.Request, _ *struct{}, reply *KeysReply) error {
	s.log.Debug("API called",
		zap.String("service", "banditdb"),
		zap.String("method", "keys"),
	)

	reply.Keys = s.store.Keys()
	return nil
}

type DigestReply struct {
	Digest string `json:"digest"`
}

// Digest returns the hex-encoded structural fingerprint of one bandit
func (s *Service) Digest(_ *http.Request, args *KeyArgs, reply *DigestReply) error {
	s.log.Debug("API called",
		zap.String("service", "banditdb"),
		zap.String("method", "digest"),
		zap.String("key", args.Key),
	)

	digest, err := s.store.Digest(args.Key)
	if err != nil {
		return err
	}
	reply.Digest = hex.EncodeToString(digest[:])
	return nil
}

// DigestAll returns the hex-encoded fingerprint of the whole keyspace
func (s *Service) DigestAll(_ *http.Request, _ *struct{}, reply *DigestReply) error {
	s.log.Debug("API called",
		zap.String("service", "banditdb"),
		zap.String("method", "digestAll"),
	)

	digest := s.store.DigestAll()
	reply.Digest = hex.EncodeToString(digest[:])
	return nil
}

type FootprintReply struct {
	Bytes jsonutil.Uint64 `json:"bytes"`
}

// Footprint returns the approximate memory usage of one bandit
func (s *Service) Footprint(_ *http.Request, args *KeyArgs, reply *FootprintReply) error {
	s.log.Debug("API called",
		zap.String("service", "banditdb"),
		zap.String("method", "footprint"),
		zap.String("key", args.Key),
	)

	bytes, err := s.store.Footprint(args.Key)
	if err != nil {
		return err
	}
	reply.Bytes = jsonutil.Uint64(bytes)
	return nil
}

// TotalFootprint returns the approximate memory usage of all bandits
func (s *Service) TotalFootprint(_ *http.Request, _ *struct{}, reply *FootprintReply) error {
	s.log.Debug("API called",
		zap.String("service", "banditdb"),
		zap.String("method", "totalFootprint"),
	)

	reply.Bytes = jsonutil.Uint64(s.store.TotalFootprint())
	return nil
}

// CompactLog rewrites the replication log to its minimal form
func (s *Service) CompactLog(_ *http.Request, _ *struct{}, reply *SuccessResponse) error {
	s.log.Debug("API called",
		zap.String("service", "banditdb"),
		zap.String("method", "compactLog"),
	)

	if err := s.store.CompactLog(); err != nil {
		return err
	}
	reply.Success = true
	return nil
}
