package body

import (
	"sync"
	"sync/atomic"
)

const DefaultBufferSize = 8192

var bufferSize atomic.Int64

func init() {
	bufferSize.Store(DefaultBufferSize)
}

var bufferPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, BufferSize())
		return &buf
	},
}

// SetBufferSize sets the increment used when copying plain bodies.
func SetBufferSize(n int) {
	if n <= 0 {
		n = DefaultBufferSize
	}
	bufferSize.Store(int64(n))
}

func BufferSize() int {
	return int(bufferSize.Load())
}

func getBuffer() *[]byte {
	bp := bufferPool.Get().(*[]byte)
	if len(*bp) != BufferSize() {
		buf := make([]byte, BufferSize())
		return &buf
	}
	return bp
}

func putBuffer(bp *[]byte) {
	if len(*bp) != BufferSize() {
		return
	}
	bufferPool.Put(bp)
}
