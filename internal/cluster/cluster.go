// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package cluster runs a topology in process: every spout and bolt
// instance gets its own goroutine and tuples travel between them over
// bounded queues, distributed by the groupings of the definition.
package cluster

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-pyleus/internal/logger"
	"github.com/MKhiriev/go-pyleus/internal/provider"
	"github.com/MKhiriev/go-pyleus/internal/stream"
	"github.com/MKhiriev/go-pyleus/internal/topology"
	"github.com/MKhiriev/go-pyleus/internal/workers"
)

const (
	DefaultQueueSize = 1024

	// idleWait is how long a spout task pauses after a call that emitted
	// nothing.
	idleWait = time.Millisecond
)

var (
	ErrNotAComponent    = errors.New("module does not build the expected component kind")
	ErrUndeclaredStream = errors.New("stream is not declared by its source")
)

// Options tune a local run.
type Options struct {
	// Conf is handed to every instance. Its topology.max.task.parallelism
	// caps the instances per component and topology.debug logs every
	// emitted tuple.
	Conf      map[string]any
	QueueSize int
	Metrics   *Metrics
}

type spoutTask struct {
	name  string
	index int
	spout stream.Spout
}

type boltTask struct {
	name  string
	index int
	bolt  stream.Bolt
	inbox chan *stream.Tuple

	// tickFreq is the tick period in seconds; tickEvery is zero when the
	// task receives no tick tuples.
	tickFreq  float64
	tickEvery time.Duration
}

// Topology is a topology built for a local run.
type Topology struct {
	name    string
	conf    map[string]any
	debug   bool
	spouts  []*spoutTask
	bolts   []*boltTask
	tasks   map[string]int
	subs    map[string][]*subscription
	metrics *Metrics
	log     *logger.Logger
}

// Build instantiates every component of spec. Spouts whose type is a
// declared provider alias come from that provider; other spouts and all
// bolts come from the module registered under their module name.
func Build(spec *topology.Spec, registry *provider.Registry, log *logger.Logger, opts Options) (*Topology, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}

	metrics := opts.Metrics
	if metrics == nil {
		var err error
		if metrics, err = NewMetrics(nil); err != nil {
			return nil, err
		}
	}

	queueSize := opts.QueueSize
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	debug, _ := opts.Conf[topology.ConfDebug].(bool)
	maxParallelism, _ := opts.Conf[topology.ConfMaxTaskParallelism].(int)

	t := &Topology{
		name:    spec.Name,
		conf:    opts.Conf,
		debug:   debug,
		tasks:   make(map[string]int),
		subs:    make(map[string][]*subscription),
		metrics: metrics,
		log:     log.WithComponent("local-cluster"),
	}

	declared := make(map[string]topology.OutputFields)
	boltTasks := make(map[string][]*boltTask)

	for _, entry := range spec.Topology {
		cs := entry.Spec()
		n := cs.NumTasks()
		if maxParallelism > 0 && n > maxParallelism {
			n = maxParallelism
		}
		t.tasks[cs.Name] = n

		var first any
		for i := range n {
			if entry.IsSpout() {
				spout, err := newSpout(registry, cs)
				if err != nil {
					return nil, fmt.Errorf("error building spout %s: %w", cs.Name, err)
				}
				t.spouts = append(t.spouts, &spoutTask{name: cs.Name, index: i, spout: spout})
				first = spout
				continue
			}

			bolt, err := newBolt(registry, cs)
			if err != nil {
				return nil, fmt.Errorf("error building bolt %s: %w", cs.Name, err)
			}
			task := &boltTask{
				name:      cs.Name,
				index:     i,
				bolt:      bolt,
				inbox:     make(chan *stream.Tuple, queueSize),
				tickFreq:  cs.TickFreqSecs,
				tickEvery: cs.TickInterval(),
			}
			t.bolts = append(t.bolts, task)
			boltTasks[cs.Name] = append(boltTasks[cs.Name], task)
			first = bolt
		}

		if entry.IsSpout() && cs.TickInterval() > 0 {
			t.log.Warn().Str("spout", cs.Name).Msg("tick_freq_secs is ignored for spouts")
		}

		declared[cs.Name] = cs.OutputFields
		if len(cs.OutputFields) == 0 {
			if d, ok := first.(stream.OutputDeclarer); ok {
				declared[cs.Name] = d.OutputFields()
			}
		}
	}

	for _, entry := range spec.Topology {
		if !entry.IsBolt() {
			continue
		}
		cs := entry.Bolt
		for _, g := range cs.Groupings {
			if streams := declared[g.Component]; len(streams) > 0 {
				if _, ok := streams[g.Stream]; !ok {
					return nil, fmt.Errorf("%w: bolt %s subscribes to %s/%s, declared streams: %s",
						ErrUndeclaredStream, cs.Name, g.Component, g.Stream, strings.Join(streams.Streams(), ", "))
				}
			}

			sub := &subscription{
				source:   g.Component,
				stream:   g.Stream,
				target:   cs.Name,
				grouping: g.Type,
				tasks:    boltTasks[cs.Name],
			}
			if g.Type == topology.FieldsGrouping {
				idx, err := fieldIndexes(declared[g.Component][g.Stream], g.Fields)
				if err != nil {
					return nil, fmt.Errorf("bolt %s: fields grouping on %s/%s: %w", cs.Name, g.Component, g.Stream, err)
				}
				sub.fields = idx
			}
			t.subs[g.Component] = append(t.subs[g.Component], sub)
		}
	}

	return t, nil
}

func newSpout(registry *provider.Registry, cs *topology.ComponentSpec) (stream.Spout, error) {
	if cs.Type != "" && (registry.Has(cs.Type) || cs.Module == "") {
		p, err := registry.Lookup(cs.Type)
		if err != nil {
			return nil, err
		}
		return p.Provide(*cs)
	}

	component, err := newModule(registry, cs)
	if err != nil {
		return nil, err
	}
	spout, ok := component.(stream.Spout)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a spout", ErrNotAComponent, cs.Module)
	}
	return spout, nil
}

func newBolt(registry *provider.Registry, cs *topology.ComponentSpec) (stream.Bolt, error) {
	component, err := newModule(registry, cs)
	if err != nil {
		return nil, err
	}
	bolt, ok := component.(stream.Bolt)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a bolt", ErrNotAComponent, cs.Module)
	}
	return bolt, nil
}

func newModule(registry *provider.Registry, cs *topology.ComponentSpec) (any, error) {
	factory, err := registry.Module(cs.Module)
	if err != nil {
		return nil, err
	}
	return factory(*cs)
}

// Name returns the topology name.
func (t *Topology) Name() string { return t.name }

// Tasks returns the number of instances of component.
func (t *Topology) Tasks(component string) int { return t.tasks[component] }

// Run drives every instance until ctx is done or an instance fails. Spouts
// are opened and closed by their task; a failing Open, Prepare or
// NextTuple stops the whole topology. A bolt returning an error from
// Process is logged and keeps running.
func (t *Topology) Run(ctx context.Context) error {
	ws := workers.New()
	for _, task := range t.spouts {
		ws.Add(workers.WorkerFunc(func(ctx context.Context) error {
			return t.runSpout(ctx, task)
		}))
	}
	for _, task := range t.bolts {
		ws.Add(workers.WorkerFunc(func(ctx context.Context) error {
			return t.runBolt(ctx, task)
		}))
	}

	t.log.Info().
		Str("topology", t.name).
		Int("spouts", len(t.spouts)).
		Int("bolts", len(t.bolts)).
		Int("tasks", ws.Len()).
		Msg("running topology locally")

	if err := ws.Run(ctx); err != nil {
		t.log.Error().Err(err).Str("topology", t.name).Msg("topology stopped")
		return err
	}

	t.log.Info().Str("topology", t.name).Msg("topology stopped")
	return nil
}

func (t *Topology) taskContext(component string, index int) stream.Context {
	return stream.Context{Component: component, TaskIndex: index, Conf: t.conf}
}

func (t *Topology) runSpout(ctx context.Context, task *spoutTask) (err error) {
	if err := task.spout.Open(t.taskContext(task.name, task.index)); err != nil {
		return fmt.Errorf("error opening spout %s[%d]: %w", task.name, task.index, err)
	}
	defer func() {
		if cErr := task.spout.Close(); cErr != nil {
			err = errors.Join(err, fmt.Errorf("error closing spout %s[%d]: %w", task.name, task.index, cErr))
		}
	}()

	out := t.newCollector(ctx, task.name)
	for ctx.Err() == nil {
		before := out.emitted
		if err := task.spout.NextTuple(ctx, out); err != nil {
			return fmt.Errorf("spout %s[%d]: %w", task.name, task.index, err)
		}
		if out.emitted == before {
			wait(ctx, idleWait)
		}
	}
	return nil
}

func (t *Topology) runBolt(ctx context.Context, task *boltTask) error {
	if err := task.bolt.Prepare(t.taskContext(task.name, task.index)); err != nil {
		return fmt.Errorf("error preparing bolt %s[%d]: %w", task.name, task.index, err)
	}

	log := t.log.With().Str("bolt", task.name).Int("task", task.index).Logger()
	ctx = log.WithContext(ctx)

	var ticks <-chan time.Time
	if task.tickEvery > 0 {
		ticker := time.NewTicker(task.tickEvery)
		defer ticker.Stop()
		ticks = ticker.C
	}

	out := t.newCollector(ctx, task.name)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticks:
			t.process(ctx, task, stream.NewTickTuple(task.tickFreq), out)
		case tup := <-task.inbox:
			t.process(ctx, task, tup, out)
		}
	}
}

func (t *Topology) process(ctx context.Context, task *boltTask, tup *stream.Tuple, out *collector) {
	start := time.Now()
	if err := task.bolt.Process(ctx, tup, out); err != nil {
		logger.FromContext(ctx).Error().Err(err).
			Str("tuple", tup.ID).
			Msg("error processing tuple")
	}
	t.metrics.Latency.WithLabelValues(task.name).Observe(time.Since(start).Seconds())
}

// dispatch delivers tup to every subscribed task, waiting for queue space
// until ctx is done.
func (t *Topology) dispatch(ctx context.Context, tup *stream.Tuple) {
	for _, sub := range t.subs[tup.Component] {
		if sub.stream != tup.Stream {
			continue
		}
		for _, task := range sub.route(tup) {
			select {
			case task.inbox <- tup:
			case <-ctx.Done():
				return
			}
		}
	}
}

func wait(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
