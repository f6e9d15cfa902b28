// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package spouts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/IBM/sarama"

	"github.com/MKhiriev/go-pyleus/internal/logger"
	"github.com/MKhiriev/go-pyleus/internal/provider"
	"github.com/MKhiriev/go-pyleus/internal/stream"
	"github.com/MKhiriev/go-pyleus/internal/topology"
)

const (
	KafkaZkRootFormat     = "/pyleus-kafka-offsets/%s"
	KafkaConsumerIDFormat = "pyleus-%s"
)

// KafkaOutputFields are the fields of every tuple a Kafka spout emits.
var KafkaOutputFields = []string{"key", "message"}

var ErrSpoutClosed = errors.New("spout is closed")

// KafkaOptions are the resolved options of a Kafka spout definition.
type KafkaOptions struct {
	Topic           string   `mapstructure:"topic"`
	ZkHosts         string   `mapstructure:"zk_hosts"`
	Brokers         []string `mapstructure:"brokers"`
	ZkRoot          string   `mapstructure:"zk_root"`
	ConsumerID      string   `mapstructure:"consumer_id"`
	FromStart       bool     `mapstructure:"from_start"`
	StartOffsetTime *int64   `mapstructure:"start_offset_time"`
}

// OffsetGroup returns the group committed offsets are stored under: the
// consumer ID below the offsets root.
func (o KafkaOptions) OffsetGroup() string {
	return strings.TrimPrefix(path.Join(o.ZkRoot, o.ConsumerID), "/")
}

// ResolveKafkaOptions reads the options of spec. topic is required, and so
// is a broker list: brokers, or else zk_hosts split on commas. zk_root and
// consumer_id default to values derived from the spout name.
func ResolveKafkaOptions(spec topology.ComponentSpec) (KafkaOptions, error) {
	var opts KafkaOptions
	if err := decodeOptions(spec.Options, &opts); err != nil {
		return KafkaOptions{}, fmt.Errorf("kafka spout %s: %w", spec.Name, err)
	}

	if opts.Topic == "" {
		return KafkaOptions{}, fmt.Errorf("kafka spout %s must have topic: %w", spec.Name, provider.ErrMissingOption)
	}

	if len(opts.Brokers) == 0 {
		for _, host := range strings.Split(opts.ZkHosts, ",") {
			if host = strings.TrimSpace(host); host != "" {
				opts.Brokers = append(opts.Brokers, host)
			}
		}
	}
	if len(opts.Brokers) == 0 {
		return KafkaOptions{}, fmt.Errorf("kafka spout %s must have zk_hosts or brokers: %w", spec.Name, provider.ErrMissingOption)
	}

	if opts.ZkRoot == "" {
		opts.ZkRoot = fmt.Sprintf(KafkaZkRootFormat, spec.Name)
	}
	if opts.ConsumerID == "" {
		opts.ConsumerID = fmt.Sprintf(KafkaConsumerIDFormat, spec.Name)
	}

	return opts, nil
}

// offsetResolver finds the offset of the first message at or after a
// timestamp. sarama.Client implements it.
type offsetResolver interface {
	GetOffset(topic string, partitionID int32, time int64) (int64, error)
}

type kafkaConn struct {
	consumer sarama.Consumer
	offsets  offsetResolver
	// committed stores the offsets of emitted messages. It may be nil.
	committed sarama.OffsetManager
	client    io.Closer
}

type dialFunc func(brokers []string, group string, cfg *sarama.Config) (kafkaConn, error)

func dialKafka(brokers []string, group string, cfg *sarama.Config) (kafkaConn, error) {
	client, err := sarama.NewClient(brokers, cfg)
	if err != nil {
		return kafkaConn{}, fmt.Errorf("error connecting to kafka: %w", err)
	}

	consumer, err := sarama.NewConsumerFromClient(client)
	if err != nil {
		_ = client.Close()
		return kafkaConn{}, fmt.Errorf("error creating kafka consumer: %w", err)
	}

	committed, err := sarama.NewOffsetManagerFromClient(group, client)
	if err != nil {
		_ = consumer.Close()
		_ = client.Close()
		return kafkaConn{}, fmt.Errorf("error creating kafka offset manager: %w", err)
	}

	return kafkaConn{consumer: consumer, offsets: client, committed: committed, client: client}, nil
}

// NewKafkaProvider returns the provider behind the kafka spout type.
func NewKafkaProvider(log *logger.Logger) provider.SpoutProvider {
	return provider.SpoutProviderFunc(func(spec topology.ComponentSpec) (stream.Spout, error) {
		opts, err := ResolveKafkaOptions(spec)
		if err != nil {
			return nil, err
		}
		return NewKafkaSpout(opts, log), nil
	})
}

// KafkaSpout consumes every partition of a topic and emits (key, message)
// string tuples. The offset of every emitted message is committed under
// [KafkaOptions.OffsetGroup], and a restarted spout resumes after it unless
// from_start is set.
type KafkaSpout struct {
	opts KafkaOptions
	log  *logger.Logger
	dial dialFunc

	conn       kafkaConn
	partitions []sarama.PartitionConsumer
	marks      map[int32]sarama.PartitionOffsetManager
	messages   chan *sarama.ConsumerMessage
	done       chan struct{}
	wg         sync.WaitGroup
	closeOnce  sync.Once
}

// NewKafkaSpout returns a spout for opts. A nil log discards output.
func NewKafkaSpout(opts KafkaOptions, log *logger.Logger) *KafkaSpout {
	if log == nil {
		log = logger.Nop()
	}
	return &KafkaSpout{
		opts: opts,
		log:  log.WithComponent("kafka-spout"),
		dial: dialKafka,
	}
}

func (s *KafkaSpout) Open(ctx stream.Context) error {
	cfg := sarama.NewConfig()
	cfg.ClientID = s.opts.ConsumerID
	cfg.Consumer.Return.Errors = true
	cfg.Consumer.Offsets.Initial = sarama.OffsetNewest

	conn, err := s.dial(s.opts.Brokers, s.opts.OffsetGroup(), cfg)
	if err != nil {
		return err
	}
	s.conn = conn

	partitions, err := conn.consumer.Partitions(s.opts.Topic)
	if err != nil {
		_ = s.Close()
		return fmt.Errorf("error listing partitions of %s: %w", s.opts.Topic, err)
	}

	s.messages = make(chan *sarama.ConsumerMessage)
	s.done = make(chan struct{})
	s.marks = make(map[int32]sarama.PartitionOffsetManager, len(partitions))

	for _, partition := range partitions {
		var pom sarama.PartitionOffsetManager
		if conn.committed != nil {
			if pom, err = conn.committed.ManagePartition(s.opts.Topic, partition); err != nil {
				_ = s.Close()
				return fmt.Errorf("error loading committed offset of %s/%d: %w", s.opts.Topic, partition, err)
			}
			s.marks[partition] = pom
		}

		offset, err := s.startOffset(partition, pom)
		if err != nil {
			_ = s.Close()
			return err
		}

		pc, err := conn.consumer.ConsumePartition(s.opts.Topic, partition, offset)
		if err != nil {
			_ = s.Close()
			return fmt.Errorf("error consuming %s/%d: %w", s.opts.Topic, partition, err)
		}
		s.partitions = append(s.partitions, pc)

		s.wg.Add(1)
		go s.forward(pc, pom)
	}

	s.log.Info().
		Str("topic", s.opts.Topic).
		Strs("brokers", s.opts.Brokers).
		Str("offset_group", s.opts.OffsetGroup()).
		Int("partitions", len(partitions)).
		Int("task", ctx.TaskIndex).
		Msg("kafka spout opened")

	return nil
}

// startOffset picks where partition is read from. With from_start the
// committed offset is ignored: the spout starts at start_offset_time, or at
// the oldest message. Otherwise it resumes from the committed offset, or
// from the newest message when nothing was committed.
func (s *KafkaSpout) startOffset(partition int32, pom sarama.PartitionOffsetManager) (int64, error) {
	if s.opts.FromStart {
		if s.opts.StartOffsetTime == nil || s.conn.offsets == nil {
			return sarama.OffsetOldest, nil
		}
		offset, err := s.conn.offsets.GetOffset(s.opts.Topic, partition, *s.opts.StartOffsetTime)
		if err != nil {
			return 0, fmt.Errorf("error resolving start offset of %s/%d: %w", s.opts.Topic, partition, err)
		}
		return offset, nil
	}

	if pom != nil {
		offset, _ := pom.NextOffset()
		return offset, nil
	}
	return sarama.OffsetNewest, nil
}

func (s *KafkaSpout) forward(pc sarama.PartitionConsumer, pom sarama.PartitionOffsetManager) {
	defer s.wg.Done()

	var commitErrs <-chan *sarama.ConsumerError
	if pom != nil {
		commitErrs = pom.Errors()
	}

	messages, errs := pc.Messages(), pc.Errors()
	for messages != nil || errs != nil {
		select {
		case <-s.done:
			return
		case msg, ok := <-messages:
			if !ok {
				messages = nil
				continue
			}
			select {
			case s.messages <- msg:
			case <-s.done:
				return
			}
		case cErr, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			s.log.Error().Err(cErr).Str("topic", cErr.Topic).Int32("partition", cErr.Partition).Msg("kafka consumer error")
		case cErr, ok := <-commitErrs:
			if !ok {
				commitErrs = nil
				continue
			}
			s.log.Error().Err(cErr).Str("topic", cErr.Topic).Int32("partition", cErr.Partition).Msg("kafka offset commit error")
		}
	}
}

// NextTuple emits the next message, waiting for one until ctx is done.
func (s *KafkaSpout) NextTuple(ctx context.Context, e stream.Emitter) error {
	if s.messages == nil {
		return ErrSpoutClosed
	}

	select {
	case <-ctx.Done():
		return nil
	case <-s.done:
		return ErrSpoutClosed
	case msg := <-s.messages:
		e.Emit(stream.Values{string(msg.Key), string(msg.Value)})
		if pom, ok := s.marks[msg.Partition]; ok {
			pom.MarkOffset(msg.Offset+1, "")
		}
		return nil
	}
}

func (s *KafkaSpout) OutputFields() map[string][]string {
	return map[string][]string{stream.DefaultStream: KafkaOutputFields}
}

func (s *KafkaSpout) Close() error {
	var errs []error
	s.closeOnce.Do(func() {
		if s.done != nil {
			close(s.done)
		}
		s.wg.Wait()

		for _, pc := range s.partitions {
			if err := pc.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		for _, pom := range s.marks {
			if err := pom.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		if s.conn.committed != nil {
			errs = append(errs, s.conn.committed.Close())
		}

		if s.conn.consumer != nil {
			errs = append(errs, s.conn.consumer.Close())
		}
		if s.conn.client != nil {
			errs = append(errs, s.conn.client.Close())
		}
	})
	return errors.Join(errs...)
}
