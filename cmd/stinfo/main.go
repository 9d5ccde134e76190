// Package main provides stinfo, a header inspector for safetensors files.
//
// Usage:
//
//	stinfo model.safetensors            # tensor table plus metadata
//	stinfo --metadata model.safetensors # metadata only, cheap header read
//	stinfo --json model.safetensors     # machine-readable output
package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"github.com/born-ml/safetensors"
)

func main() {
	metadataOnly := flag.Bool("metadata", false, "print only the __metadata__ map")
	asJSON := flag.Bool("json", false, "print machine-readable JSON")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: stinfo [flags] <file.safetensors>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)

	if *metadataOnly {
		meta, err := readMetadata(path)
		if err != nil {
			logger.Fatal().Err(err).Str("file", path).Msg("failed to read metadata")
		}
		printMetadata(meta, *asJSON)
		return
	}

	f, err := safetensors.Open(path)
	if err != nil {
		logger.Fatal().Err(err).Str("file", path).Msg("failed to open file")
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn().Err(err).Msg("close failed")
		}
	}()

	if *asJSON {
		printJSON(f)
		return
	}
	printTable(f)
}

// readMetadata pulls only the length prefix and header off disk; the data
// segment is never read.
func readMetadata(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	prefix := make([]byte, 8)
	if _, err := io.ReadFull(f, prefix); err != nil {
		return nil, fmt.Errorf("%w: %v", safetensors.ErrBufferTooShort, err)
	}
	n := binary.LittleEndian.Uint64(prefix)
	if n > safetensors.MaxHeaderSize {
		return nil, fmt.Errorf("%w: header length %d", safetensors.ErrHeaderTooLarge, n)
	}

	buf := make([]byte, 8+n)
	copy(buf, prefix)
	if _, err := io.ReadFull(f, buf[8:]); err != nil {
		return nil, fmt.Errorf("%w: %v", safetensors.ErrBufferTooShort, err)
	}
	return safetensors.ReadMetadata(buf)
}

func printMetadata(meta map[string]string, asJSON bool) {
	if asJSON {
		out, _ := json.Marshal(meta)
		fmt.Println(string(out))
		return
	}
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s = %s\n", k, meta[k])
	}
}

func printTable(f *safetensors.File) {
	total := int64(0)
	for _, t := range f.Tensors() {
		fmt.Printf("%-48s %-8s %-20v %10d bytes\n",
			t.Name, t.View.DType(), t.View.Shape(), len(t.View.Data()))
		total += int64(len(t.View.Data()))
	}
	fmt.Printf("\n%d tensors, %d data bytes\n", f.Len(), total)
	if meta := f.Metadata(); len(meta) > 0 {
		fmt.Println("\nmetadata:")
		printMetadata(meta, false)
	}
}

type tensorEntry struct {
	Name  string  `json:"name"`
	DType string  `json:"dtype"`
	Shape []int64 `json:"shape"`
	Bytes int     `json:"bytes"`
}

func printJSON(f *safetensors.File) {
	out := struct {
		Tensors  []tensorEntry     `json:"tensors"`
		Metadata map[string]string `json:"metadata,omitempty"`
	}{
		Tensors:  make([]tensorEntry, 0, f.Len()),
		Metadata: f.Metadata(),
	}
	for _, t := range f.Tensors() {
		out.Tensors = append(out.Tensors, tensorEntry{
			Name:  t.Name,
			DType: t.View.DType().String(),
			Shape: t.View.Shape(),
			Bytes: len(t.View.Data()),
		})
	}
	enc, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(enc))
}
