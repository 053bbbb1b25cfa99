//go:build unix

package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/marmos91/ntstm/cmd/ntstm/cmdutil"
	"github.com/marmos91/ntstm/internal/bytesize"
	"github.com/marmos91/ntstm/internal/logger"
	"github.com/marmos91/ntstm/internal/telemetry"
	"github.com/marmos91/ntstm/pkg/bufpool"
	"github.com/marmos91/ntstm/pkg/metrics"
	"github.com/marmos91/ntstm/pkg/stream"
)

// maxChunkSize matches the upper bound of buffer.chunk_size.
const maxChunkSize = 64 * bytesize.MiB

var (
	pipeCount     bytesize.ByteSize
	pipeChunkSize bytesize.ByteSize
)

var pipeCmd = &cobra.Command{
	Use:   "pipe",
	Short: "Copy an exact number of bytes from stdin to stdout",
	Long: `Copy exactly --count bytes from standard input to standard output.

Every chunk is moved with one full transfer: it is either read and written
completely or the command fails. Input that ends early is an error, never
a short copy. On failure the error kind is reported and selects the exit
status (10 + kind).

Examples:
  # Copy the first 1 MiB of a file
  ntstm pipe --count 1Mi < disk.img > head.img

  # Use 1 MiB transfers
  ntstm pipe --count 10GB --chunk-size 1Mi < in > out`,
	Args: cobra.NoArgs,
	RunE: runPipe,
}

func init() {
	pipeCmd.Flags().Var(&pipeCount, "count", "Number of bytes to copy (e.g. 4096, 64Ki, 1GB)")
	pipeCmd.Flags().Var(&pipeChunkSize, "chunk-size", "Bytes per transfer (default: buffer.chunk_size)")
	_ = pipeCmd.MarkFlagRequired("count")
}

func runPipe(cmd *cobra.Command, args []string) error {
	cfg, ctx := cmdutil.Setup()

	chunk := cfg.Buffer.ChunkSize
	if cmd.Flags().Changed("chunk-size") {
		chunk = pipeChunkSize
	}
	if chunk == 0 || chunk > maxChunkSize {
		return fmt.Errorf("chunk size must be between 1 and %s, got %s", maxChunkSize, chunk)
	}

	m := metrics.NewStreamMetrics()
	src := stream.NewMeteredReader(stream.NewFileStream(int(os.Stdin.Fd())), m)
	dst := stream.NewMeteredWriter(stream.NewFileStream(int(os.Stdout.Fd())), m)

	ctx, span := telemetry.StartSpan(ctx, "pipe.copy", trace.WithAttributes(
		telemetry.Bytes(int64(pipeCount)),
		telemetry.ChunkSize(chunk.Int()),
	))
	defer span.End()

	lc := logger.FromContext(ctx)
	copied, err := copyExact(ctx, dst, src, pipeCount.Uint64(), chunk.Int())
	if err != nil {
		telemetry.RecordError(ctx, err)
		logger.ErrorCtx(ctx, "Pipe failed",
			logger.Bytes(int64(copied)),
			logger.Count(int64(pipeCount)),
			logger.ErrorKind(err),
			logger.Err(err))
		return fmt.Errorf("copied %d of %d bytes: %w", copied, pipeCount.Uint64(), err)
	}

	logger.InfoCtx(ctx, "Pipe complete",
		logger.Bytes(int64(copied)),
		logger.ChunkSize(chunk.Int()),
		logger.DurationMs(lc.DurationMs()))
	return nil
}

// copyExact moves count bytes from src to dst in transfers of at most
// chunk bytes and returns how many bytes were written. Cancellation is
// checked between transfers.
func copyExact(ctx context.Context, dst stream.Writer, src stream.Reader, count uint64, chunk int) (uint64, error) {
	if chunk <= 0 {
		return 0, fmt.Errorf("invalid chunk size %d", chunk)
	}

	size := chunk
	if count < uint64(size) {
		size = int(count)
	}
	buf := bufpool.Get(size)
	defer bufpool.Put(buf)

	var copied uint64
	for copied < count {
		if err := ctx.Err(); err != nil {
			return copied, err
		}

		n := uint64(len(buf))
		if remaining := count - copied; remaining < n {
			n = remaining
		}
		if err := src.ReadFull(buf[:n]); err != nil {
			return copied, fmt.Errorf("read: %w", err)
		}
		if err := dst.WriteFull(buf[:n]); err != nil {
			return copied, fmt.Errorf("write: %w", err)
		}
		copied += n
	}
	return copied, nil
}
