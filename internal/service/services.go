// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"time"

	"github.com/MKhiriev/go-promise-sync/internal/logger"
	"github.com/MKhiriev/go-promise-sync/internal/signal"
	"github.com/MKhiriev/go-promise-sync/internal/store"
)

// ProducerServices is the producer side: the writer and a local-only loader
// used to show what consumers will see.
type ProducerServices struct {
	Writer *SnapshotWriter
	Loader *SnapshotLoader
}

// NewProducerServices wires the writer over the primary file and the
// key-value mirror. storages.KV may be nil; the writer then keeps only the
// primary copy.
func NewProducerServices(storages *store.Storages, ch signal.Channel, refreshHook func(), log *logger.Logger) (*ProducerServices, error) {
	opts := []WriterOption{
		WithWriteLocker(storages.File),
		WithClearMarkers(Markers(storages)...),
		WithSignal(ch),
		WithRefreshHook(refreshHook),
	}
	if storages.KV != nil {
		opts = append(opts,
			WithMirror(storages.KV.Backend(store.KeySnapshot)),
			WithLegacyKeys(storages.KV, store.LegacyKeys...),
		)
	}

	writer, err := NewSnapshotWriter(storages.File, log, opts...)
	if err != nil {
		return nil, err
	}

	return &ProducerServices{
		Writer: writer,
		Loader: NewSnapshotLoader(Sources(storages, nil, 0), Markers(storages), log),
	}, nil
}

// ConsumerServices is the consumer side: the loader chain and the scheduler
// driving it.
type ConsumerServices struct {
	Loader    *SnapshotLoader
	Scheduler *RefreshScheduler
}

// NewConsumerServices wires the loader chain and the scheduler. remote may be
// nil when no remote backend is configured.
func NewConsumerServices(storages *store.Storages, remote PromiseFetcher, remoteTimeout time.Duration, ch signal.Channel, interval time.Duration, log *logger.Logger) *ConsumerServices {
	loader := NewSnapshotLoader(Sources(storages, remote, remoteTimeout), Markers(storages), log)
	return &ConsumerServices{
		Loader:    loader,
		Scheduler: NewRefreshScheduler(loader, ch, interval, log),
	}
}

// Sources builds the ranked chain: remote, primary file, key-value mirror,
// legacy keys. The remote source and everything in the key-value store are
// mirrors, so a local sign-out hides them.
func Sources(storages *store.Storages, remote PromiseFetcher, remoteTimeout time.Duration) []LoaderSource {
	var sources []LoaderSource
	if remote != nil {
		sources = append(sources, LoaderSource{Source: NewRemoteSource(remote), Timeout: remoteTimeout, Mirror: true})
	}
	sources = append(sources, LoaderSource{Source: NewBackendSource(storages.File)})
	if storages.KV != nil {
		sources = append(sources,
			LoaderSource{Source: NewBackendSource(storages.KV.Backend(store.KeySnapshot)), Mirror: true},
			LoaderSource{Source: NewLegacySource(storages.KV), Mirror: true},
		)
	}
	return sources
}

// Markers returns the cleared markers of the available local stores.
func Markers(storages *store.Storages) []store.ClearMarker {
	markers := []store.ClearMarker{storages.File}
	if storages.KV != nil {
		markers = append(markers, storages.KV)
	}
	return markers
}
