package sfnt

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"
	"go.etcd.io/bbolt"
)

// Collection names a group of named blobs kept by a Store.
type Collection string

const (
	Snapshots Collection = "snapshots"
	Builds    Collection = "builds"

	buildInfoBucket = "buildinfo"
)

var (
	// ErrNotFound is returned when a named snapshot or build does not exist.
	ErrNotFound = errors.New("not found")

	// ErrCorrupt is returned when stored build bytes do not match their digest.
	ErrCorrupt = errors.New("digest mismatch")
)

type StoreOptions struct {
	Logf      func(format string, args ...any)
	Verbose   bool
	IsTesting bool
	MmapSize  int
}

// Store keeps named table snapshots and assembled fonts in a Bolt database.
type Store struct {
	st      storage
	logf    func(format string, args ...any)
	verbose bool
}

// BuildInfo describes an assembled font saved by SaveBuild.
type BuildInfo struct {
	Size     int       `msgpack:"s"`
	Digest   uint64    `msgpack:"d"` // xxhash64 of the assembled bytes
	Tables   []string  `msgpack:"t"`
	Problems []string  `msgpack:"p,omitempty"`
	Created  time.Time `msgpack:"c"`
}

func OpenStore(path string, opt StoreOptions) (*Store, error) {
	bopt := *bbolt.DefaultOptions
	bopt.Timeout = 10 * time.Second
	if opt.IsTesting {
		bopt.NoSync = true
		bopt.NoFreelistSync = true
		bopt.InitialMmapSize = 1024 * 1024
	} else {
		bopt.InitialMmapSize = 64 * 1024 * 1024
		bopt.FreelistType = bbolt.FreelistMapType
	}
	if opt.MmapSize != 0 {
		bopt.InitialMmapSize = opt.MmapSize
	}

	bdb, err := bbolt.Open(path, 0666, &bopt)
	if err != nil {
		return nil, fmt.Errorf("sfnt: store: %w", err)
	}
	return newStore(newBoltStorage(bdb), opt)
}

// NewMemoryStore returns a Store that lives only as long as the process.
func NewMemoryStore(opt StoreOptions) *Store {
	return must(newStore(newMemStorage(), opt))
}

func newStore(st storage, opt StoreOptions) (*Store, error) {
	s := &Store{
		st:      st,
		logf:    opt.Logf,
		verbose: opt.Verbose,
	}
	err := s.write(func(tx storageTx) error {
		for _, name := range []string{string(Snapshots), string(Builds), buildInfoBucket} {
			if _, err := tx.CreateBucket(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("sfnt: store: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.st.Close()
}

// SaveSnapshot stores the current table values of f under the given name,
// replacing any previous snapshot with that name.
func (s *Store) SaveSnapshot(name string, f *Font) error {
	data, err := f.MarshalSnapshot()
	if err != nil {
		return err
	}
	err = s.write(func(tx storageTx) error {
		return tx.Bucket(string(Snapshots)).Put([]byte(name), data)
	})
	if err != nil {
		return fmt.Errorf("sfnt: saving snapshot %q: %w", name, err)
	}
	if s.verbose {
		s.log("saved snapshot %q (%d bytes)", name, len(data))
	}
	return nil
}

// LoadSnapshot replaces the values of tables of f that are present in the
// named snapshot.
func (s *Store) LoadSnapshot(name string, f *Font) error {
	data, err := s.get(Snapshots, name)
	if err != nil {
		return fmt.Errorf("sfnt: loading snapshot %q: %w", name, err)
	}
	return f.UnmarshalSnapshot(data)
}

// SaveBuild stores the assembled bytes along with a BuildInfo summary.
func (s *Store) SaveBuild(name string, out *Output) error {
	info := &BuildInfo{
		Size:    len(out.Data),
		Digest:  xxhash.Sum64(out.Data),
		Created: time.Now().UTC().Truncate(time.Millisecond),
	}
	for _, e := range out.Layout.Entries {
		info.Tables = append(info.Tables, e.Tag.String())
	}
	for _, p := range out.Problems {
		info.Problems = append(info.Problems, p.Error())
	}
	infoData, err := msgpack.Marshal(info)
	if err != nil {
		return fmt.Errorf("sfnt: saving build %q: %w", name, err)
	}

	err = s.write(func(tx storageTx) error {
		if err := tx.Bucket(string(Builds)).Put([]byte(name), out.Data); err != nil {
			return err
		}
		return tx.Bucket(buildInfoBucket).Put([]byte(name), infoData)
	})
	if err != nil {
		return fmt.Errorf("sfnt: saving build %q: %w", name, err)
	}
	if s.verbose {
		s.log("saved build %q (%d bytes, %d tables, %d problems)", name, info.Size, len(info.Tables), len(info.Problems))
	}
	return nil
}

// LoadBuild returns the assembled bytes and the BuildInfo saved by SaveBuild.
func (s *Store) LoadBuild(name string) ([]byte, *BuildInfo, error) {
	var data, infoData []byte
	err := s.read(func(tx storageTx) error {
		data = slices.Clone(tx.Bucket(string(Builds)).Get([]byte(name)))
		infoData = slices.Clone(tx.Bucket(buildInfoBucket).Get([]byte(name)))
		return nil
	})
	if err == nil && data == nil {
		err = ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("sfnt: loading build %q: %w", name, err)
	}

	info := new(BuildInfo)
	if infoData != nil {
		if err := msgpack.Unmarshal(infoData, info); err != nil {
			return nil, nil, fmt.Errorf("sfnt: loading build %q info: %w", name, err)
		}
		if actual := xxhash.Sum64(data); actual != info.Digest {
			return nil, nil, fmt.Errorf("sfnt: loading build %q: %w (%016x, stored %016x)", name, ErrCorrupt, actual, info.Digest)
		}
	}
	return data, info, nil
}

// Names returns the sorted names stored in the given collection.
func (s *Store) Names(coll Collection) ([]string, error) {
	var names []string
	err := s.read(func(tx storageTx) error {
		b := tx.Bucket(string(coll))
		if b == nil {
			return fmt.Errorf("unknown collection %q", coll)
		}
		c := b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			names = append(names, string(k))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sfnt: listing %s: %w", coll, err)
	}
	return names, nil
}

// Count returns the number of entries in the given collection.
func (s *Store) Count(coll Collection) (int, error) {
	var n int
	err := s.read(func(tx storageTx) error {
		b := tx.Bucket(string(coll))
		if b == nil {
			return fmt.Errorf("unknown collection %q", coll)
		}
		n = b.KeyCount()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("sfnt: counting %s: %w", coll, err)
	}
	return n, nil
}

// Delete removes a named entry from the collection. Deleting a missing entry
// is not an error.
func (s *Store) Delete(coll Collection, name string) error {
	err := s.write(func(tx storageTx) error {
		b := tx.Bucket(string(coll))
		if b == nil {
			return fmt.Errorf("unknown collection %q", coll)
		}
		if err := b.Delete([]byte(name)); err != nil {
			return err
		}
		if coll == Builds {
			return tx.Bucket(buildInfoBucket).Delete([]byte(name))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sfnt: deleting %s %q: %w", coll, name, err)
	}
	return nil
}

func (s *Store) get(coll Collection, name string) ([]byte, error) {
	var data []byte
	err := s.read(func(tx storageTx) error {
		data = slices.Clone(tx.Bucket(string(coll)).Get([]byte(name)))
		return nil
	})
	if err == nil && data == nil {
		err = ErrNotFound
	}
	return data, err
}

func (s *Store) read(f func(tx storageTx) error) error {
	tx, err := s.st.BeginTx(false)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	return f(tx)
}

func (s *Store) write(f func(tx storageTx) error) error {
	tx, err := s.st.BeginTx(true)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := f(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) log(format string, args ...any) {
	if s.logf != nil {
		s.logf(format, args...)
	}
}
