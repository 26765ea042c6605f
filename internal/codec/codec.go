// Package codec implements the on-disk index format: a 4-byte
// little-endian version header followed by an opaque, deterministically
// ordered binary payload. Grounded on the storage layer's
// internal/storage/vector_ops.go float32 blob (de)serialization and on
// AlexC1991-VoxAI_IDE's internal/storage/mmap_store.go header convention,
// generalized here from a fixed-record mmap layout to a length-prefixed
// streaming payload since fragments and files are variable length.
package codec

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/corvine/flatindex/pkg/model"
)

// CurrentVersion is the only version this build of the codec writes or
// accepts on read. There is no in-place migration path: a file written
// with any other version is deleted and the caller performs a full
// rebuild.
const CurrentVersion uint32 = 8

const (
	kindFolder  byte = 0
	kindGitRepo byte = 1
)

// Write serializes idx to path as a version-prefixed binary file. Files
// are written in ascending path order so re-reading yields a
// bit-identical payload given identical in-memory content (see DESIGN.md,
// invariant 2 in §8).
func Write(path string, idx *model.Index) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", model.ErrIO, path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], CurrentVersion)
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("%w: write header: %v", model.ErrIO, err)
	}
	if err := encodeIndex(w, idx); err != nil {
		return fmt.Errorf("%w: encode index: %v", model.ErrIO, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("%w: flush %s: %v", model.ErrIO, path, err)
	}
	return nil
}

// Read loads the index at path. A file shorter than 4 bytes is
// CorruptIndex. A version other than CurrentVersion deletes the file
// (best effort) and returns an *model.IndexVersionMismatchError. Any
// deserialization failure past a valid header is CorruptIndex.
func Read(path string) (*model.Index, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", model.ErrIO, path, err)
	}
	if len(raw) < 4 {
		return nil, fmt.Errorf("%w: %s is %d bytes, need at least 4", model.ErrCorruptIndex, path, len(raw))
	}
	version := binary.LittleEndian.Uint32(raw[:4])
	if version != CurrentVersion {
		_ = os.Remove(path)
		return nil, &model.IndexVersionMismatchError{
			FilePath:        path,
			FileVersion:     version,
			ExpectedVersion: CurrentVersion,
		}
	}
	idx, err := decodeIndex(bytes.NewReader(raw[4:]))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", model.ErrCorruptIndex, path, err)
	}
	return idx, nil
}

func encodeIndex(w io.Writer, idx *model.Index) error {
	if idx.Kind == model.KindGitRepo {
		if err := writeByte(w, kindGitRepo); err != nil {
			return err
		}
	} else {
		if err := writeByte(w, kindFolder); err != nil {
			return err
		}
	}
	if err := writeString(w, idx.Path); err != nil {
		return err
	}
	if idx.Kind == model.KindGitRepo {
		if err := writeString(w, idx.Name); err != nil {
			return err
		}
		if err := writeString(w, idx.LatestCommitHash); err != nil {
			return err
		}
		if err := writeBool(w, idx.IsDirty); err != nil {
			return err
		}
	}
	paths := idx.SortedPaths()
	if err := writeUint32(w, uint32(len(paths))); err != nil {
		return err
	}
	for _, p := range paths {
		if err := encodeFile(w, idx.Files[p]); err != nil {
			return err
		}
	}
	return nil
}

func decodeIndex(r io.Reader) (*model.Index, error) {
	kindByte, err := readByte(r)
	if err != nil {
		return nil, err
	}
	idx := &model.Index{Files: map[string]*model.File{}}
	if kindByte == kindGitRepo {
		idx.Kind = model.KindGitRepo
	}
	idx.Path, err = readString(r)
	if err != nil {
		return nil, err
	}
	if idx.Kind == model.KindGitRepo {
		if idx.Name, err = readString(r); err != nil {
			return nil, err
		}
		if idx.LatestCommitHash, err = readString(r); err != nil {
			return nil, err
		}
		if idx.IsDirty, err = readBool(r); err != nil {
			return nil, err
		}
	}
	count, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < count; i++ {
		file, err := decodeFile(r)
		if err != nil {
			return nil, err
		}
		idx.Files[file.Path] = file
	}
	return idx, nil
}

func encodeFile(w io.Writer, f *model.File) error {
	if err := writeString(w, f.Path); err != nil {
		return err
	}
	if err := writeString(w, f.Filename); err != nil {
		return err
	}
	if _, err := w.Write(f.Hash[:]); err != nil {
		return err
	}
	if err := writeFloat64(w, f.CreationTime); err != nil {
		return err
	}
	if err := writeFloat64(w, f.LastModified); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(len(f.Fragments))); err != nil {
		return err
	}
	for _, frag := range f.Fragments {
		if err := encodeFragment(w, frag); err != nil {
			return err
		}
	}
	return nil
}

func decodeFile(r io.Reader) (*model.File, error) {
	f := &model.File{}
	var err error
	if f.Path, err = readString(r); err != nil {
		return nil, err
	}
	if f.Filename, err = readString(r); err != nil {
		return nil, err
	}
	if _, err = io.ReadFull(r, f.Hash[:]); err != nil {
		return nil, err
	}
	if f.CreationTime, err = readFloat64(r); err != nil {
		return nil, err
	}
	if f.LastModified, err = readFloat64(r); err != nil {
		return nil, err
	}
	count, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	f.Fragments = make([]model.Fragment, count)
	for i := uint32(0); i < count; i++ {
		frag, err := decodeFragment(r)
		if err != nil {
			return nil, err
		}
		f.Fragments[i] = frag
	}
	return f, nil
}

func encodeFragment(w io.Writer, f model.Fragment) error {
	if err := writeUint32(w, uint32(int32(f.StartLine))); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(int32(f.EndLine))); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(len(f.Embedding))); err != nil {
		return err
	}
	for _, v := range f.Embedding {
		if err := writeUint32(w, math.Float32bits(v)); err != nil {
			return err
		}
	}
	if err := writeString(w, f.FragmentType); err != nil {
		return err
	}
	if err := writeString(w, f.Model); err != nil {
		return err
	}
	if err := writeString(w, f.ChunkAlgorithm); err != nil {
		return err
	}
	if err := writeString(w, string(f.Task)); err != nil {
		return err
	}
	if err := writeBool(w, f.Private); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(int32(f.ContentScore))); err != nil {
		return err
	}
	if _, err := w.Write(f.Hash[:]); err != nil {
		return err
	}
	return nil
}

func decodeFragment(r io.Reader) (model.Fragment, error) {
	var f model.Fragment
	startLine, err := readUint32(r)
	if err != nil {
		return f, err
	}
	endLine, err := readUint32(r)
	if err != nil {
		return f, err
	}
	f.StartLine = int(int32(startLine))
	f.EndLine = int(int32(endLine))

	dim, err := readUint32(r)
	if err != nil {
		return f, err
	}
	if dim > 0 {
		f.Embedding = make([]float32, dim)
		for i := uint32(0); i < dim; i++ {
			bits, err := readUint32(r)
			if err != nil {
				return f, err
			}
			f.Embedding[i] = math.Float32frombits(bits)
		}
	}
	if f.FragmentType, err = readString(r); err != nil {
		return f, err
	}
	if f.Model, err = readString(r); err != nil {
		return f, err
	}
	if f.ChunkAlgorithm, err = readString(r); err != nil {
		return f, err
	}
	task, err := readString(r)
	if err != nil {
		return f, err
	}
	f.Task = model.Task(task)
	if f.Private, err = readBool(r); err != nil {
		return f, err
	}
	contentScore, err := readUint32(r)
	if err != nil {
		return f, err
	}
	f.ContentScore = int(int32(contentScore))
	if _, err := io.ReadFull(r, f.Hash[:]); err != nil {
		return f, err
	}
	return f, nil
}
