// Package stringpool interns repeated attribute values into a growable
// memory-mapped backing file: each distinct string is written to the file
// once, and hits and misses are counted. Strings handed back to callers are
// ordinary Go strings, not views into the file, so features do not share
// one in-memory copy of a repeated value.
package stringpool

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/tysonmote/gommap"

	"github.com/atlasdatatech/vectorpipeline/internal/logging"
)

const (
	growthIncrement = 131072
	initialSize     = 4096
)

// backing is the growable mmap region a Pool writes each newly seen string
// into.
type backing struct {
	file *os.File
	mmap gommap.MMap
	size int64
	off  int64
}

func openBacking(file *os.File) (*backing, error) {
	if err := file.Truncate(initialSize); err != nil {
		return nil, err
	}
	m, err := gommap.Map(file.Fd(), gommap.PROT_READ|gommap.PROT_WRITE, gommap.MAP_SHARED)
	if err != nil {
		return nil, err
	}
	return &backing{file: file, mmap: m, size: initialSize}, nil
}

func (b *backing) write(s string) (offset int64, err error) {
	need := int64(len(s))
	if b.off+need > b.size {
		if err := b.mmap.UnsafeUnmap(); err != nil {
			return 0, err
		}
		b.size += (need + growthIncrement) / growthIncrement * growthIncrement
		if err := b.file.Truncate(b.size); err != nil {
			return 0, err
		}
		m, err := gommap.Map(b.file.Fd(), gommap.PROT_READ|gommap.PROT_WRITE, gommap.MAP_SHARED)
		if err != nil {
			return 0, err
		}
		b.mmap = m
	}
	off := b.off
	copy(b.mmap[off:], s)
	b.off += need
	return off, nil
}

func (b *backing) read(off, length int64) string {
	return string(b.mmap[off : off+length])
}

func (b *backing) close() error {
	if err := b.mmap.UnsafeUnmap(); err != nil {
		return err
	}
	return b.file.Close()
}

type span struct {
	off int64
	len int64
}

// Pool deduplicates strings behind a small in-memory index backed by an
// mmap'd spill file: the file holds one copy of each distinct string.
type Pool struct {
	log     *logrus.Logger
	backing *backing
	index   map[string]span
	hits    int64
	misses  int64
}

// Open creates a Pool spilling into file, which the caller owns and must
// have opened for reading and writing.
func Open(file *os.File) (*Pool, error) {
	b, err := openBacking(file)
	if err != nil {
		return nil, err
	}
	return &Pool{
		log:     logging.Log,
		backing: b,
		index:   make(map[string]span),
	}, nil
}

// Close releases the mmap and underlying file. It does not remove the file.
func (p *Pool) Close() error {
	return p.backing.close()
}

// Intern appends s to the backing file the first time it is seen and
// returns s itself. Later calls with an equal string return a new copy read
// back from the backing file; the returned string never aliases the mmap
// region, so it stays valid after the Pool is closed.
func (p *Pool) Intern(s string) (string, error) {
	if sp, ok := p.index[s]; ok {
		p.hits++
		return p.backing.read(sp.off, sp.len), nil
	}
	off, err := p.backing.write(s)
	if err != nil {
		return "", err
	}
	p.misses++
	p.index[s] = span{off: off, len: int64(len(s))}
	return s, nil
}

// Stats reports how effective interning has been so far.
func (p *Pool) Stats() (hits, misses int64) {
	return p.hits, p.misses
}

// LogStats emits a summary line, warning when the pool has grown
// unexpectedly large.
func (p *Pool) LogStats() {
	if p.misses > 1_000_000 {
		p.log.WithFields(logrus.Fields{"hits": p.hits, "misses": p.misses}).Warn("string pool is very large")
		return
	}
	p.log.WithFields(logrus.Fields{"hits": p.hits, "misses": p.misses}).Debug("string pool stats")
}
