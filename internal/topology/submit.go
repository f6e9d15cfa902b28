package topology

// MsgpackSerializerClass is the multi-lang serializer registered for the
// msgpack serializer. The json serializer is the cluster default.
const MsgpackSerializerClass = "com.yelp.pyleus.serializer.MessagePackSerializer"

// Cluster configuration keys set from a Spec.
const (
	ConfMultilangSerializer = "topology.multilang.serializer"
	ConfShellboltMaxPending = "topology.shellbolt.max.pending"
	ConfWorkers             = "topology.workers"
	ConfMaxSpoutPending     = "topology.max.spout.pending"
	ConfMessageTimeoutSecs  = "topology.message.timeout.secs"
	ConfAckerExecutors      = "topology.acker.executors"
	ConfDebug               = "topology.debug"
	ConfMaxTaskParallelism  = "topology.max.task.parallelism"
)

func (s *Spec) setSerializer(conf map[string]any) {
	if s.Serializer == SerializerMsgpack {
		conf[ConfMultilangSerializer] = MsgpackSerializerClass
	}
}

// SubmitOptions returns the cluster configuration a topology is submitted
// with. Options left [Unset] are omitted.
func (s *Spec) SubmitOptions() map[string]any {
	conf := map[string]any{ConfDebug: false}
	s.setSerializer(conf)

	set := func(key string, v int) {
		if v != Unset {
			conf[key] = v
		}
	}
	set(ConfShellboltMaxPending, s.MaxShellboltPending)
	set(ConfWorkers, s.Workers)
	set(ConfMaxSpoutPending, s.MaxSpoutPending)
	set(ConfMessageTimeoutSecs, s.MessageTimeoutSecs)
	set(ConfAckerExecutors, s.Ackers)

	return conf
}

// LocalOptions returns the configuration used to run the topology in
// process: debug as requested and a task parallelism of one.
func (s *Spec) LocalOptions(debug bool) map[string]any {
	conf := map[string]any{
		ConfDebug:              debug,
		ConfMaxTaskParallelism: 1,
	}
	s.setSerializer(conf)
	return conf
}
