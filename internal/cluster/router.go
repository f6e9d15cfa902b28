package cluster

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"

	"github.com/MKhiriev/go-pyleus/internal/stream"
	"github.com/MKhiriev/go-pyleus/internal/topology"
)

// subscription delivers the tuples of one source stream to the instances of
// one bolt.
type subscription struct {
	source   string
	stream   string
	target   string
	grouping topology.GroupingType
	tasks    []*boltTask
	fields   []int
	next     atomic.Uint64
}

// route returns the tasks t is delivered to.
func (s *subscription) route(t *stream.Tuple) []*boltTask {
	switch s.grouping {
	case topology.AllGrouping:
		return s.tasks
	case topology.GlobalGrouping:
		return s.tasks[:1]
	case topology.FieldsGrouping:
		return []*boltTask{s.tasks[fieldsHash(t, s.fields)%uint64(len(s.tasks))]}
	default:
		i := s.next.Add(1) - 1
		return []*boltTask{s.tasks[i%uint64(len(s.tasks))]}
	}
}

// digestPool holds reusable xxhash digests for fields grouping.
var digestPool = sync.Pool{
	New: func() any {
		return xxhash.New()
	},
}

// fieldsHash hashes the values at idx so that equal values always reach
// the same task.
func fieldsHash(t *stream.Tuple, idx []int) uint64 {
	d := digestPool.Get().(*xxhash.Digest)
	d.Reset()

	for _, i := range idx {
		fmt.Fprintf(d, "%v\x00", t.Value(i))
	}
	sum := d.Sum64()

	digestPool.Put(d)
	return sum
}

// fieldIndexes returns the positions of fields within declared.
func fieldIndexes(declared, fields []string) ([]int, error) {
	idx := make([]int, 0, len(fields))
	for _, f := range fields {
		pos := -1
		for i, d := range declared {
			if d == f {
				pos = i
				break
			}
		}
		if pos < 0 {
			return nil, fmt.Errorf("field %q is not declared (declared: %v)", f, declared)
		}
		idx = append(idx, pos)
	}
	return idx, nil
}
