package planner

import "sync/atomic"

// jobSeq numbers digest jobs across the whole process for log correlation.
var jobSeq atomic.Uint64

func nextJobID() uint64 {
	return jobSeq.Add(1)
}

type fileRef struct {
	Path string
}
