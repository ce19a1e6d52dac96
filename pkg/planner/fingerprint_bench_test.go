package planner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/go-git/go-billy/v5/osfs"
)

// ベンチマーク用のフラットなディレクトリを作成
func createBenchmarkDir(b *testing.B, numFiles, fileSize int) string {
	b.Helper()

	dir := b.TempDir()
	content := make([]byte, fileSize)
	for i := 0; i < numFiles; i++ {
		content[0] = byte(i)
		content[len(content)-1] = byte(i >> 8)
		path := filepath.Join(dir, fmt.Sprintf("file%04d.bin", i))
		if err := os.WriteFile(path, content, 0644); err != nil {
			b.Fatalf("Failed to create file: %v", err)
		}
	}
	return dir
}

func BenchmarkFingerprint(b *testing.B) {
	dir := createBenchmarkDir(b, 200, 256*1024)
	provider := newProvider(b)

	for _, workers := range []int{1, 4, runtime.NumCPU()} {
		b.Run(fmt.Sprintf("workers=%d", workers), func(b *testing.B) {
			f := NewFingerprinter(osfs.New("/"), provider, Options{Workers: workers})
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := f.fingerprint(context.Background(), dir, Filter{}); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkDiff(b *testing.B) {
	source := map[string]string{}
	dest := map[string]string{}
	for i := 0; i < 10000; i++ {
		source[fmt.Sprintf("s%05d", i)] = fmt.Sprintf("content-%d", i)
		if i%2 == 0 {
			dest[fmt.Sprintf("d%05d", i)] = fmt.Sprintf("content-%d", i)
		}
	}
	srcFP := fingerprintOf("/src", source)
	dstFP := fingerprintOf("/dst", dest)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Diff(srcFP, dstFP)
	}
}
