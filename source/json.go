package source

import (
	"context"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/fxsml/zipflow/archive"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSON returns a source with the JSON encoding of the value returned by
// get. The value is built when the entry is opened.
func JSON(get func(ctx context.Context) (any, error)) archive.OpenFunc {
	return Writer(func(ctx context.Context, w io.Writer) error {
		v, err := get(ctx)
		if err != nil {
			return err
		}
		stream := json.BorrowStream(w)
		defer json.ReturnStream(stream)
		stream.WriteVal(v)
		if stream.Error != nil {
			return stream.Error
		}
		return stream.Flush()
	})
}

// YieldFunc encodes one record.
type YieldFunc func(v any) error

// NDJSON returns a source with one JSON encoded record per line. produce
// calls yield for every record, in order.
func NDJSON(produce func(ctx context.Context, yield YieldFunc) error) archive.OpenFunc {
	return Writer(func(ctx context.Context, w io.Writer) error {
		stream := json.BorrowStream(w)
		defer json.ReturnStream(stream)

		err := produce(ctx, func(v any) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			stream.WriteVal(v)
			stream.WriteRaw("\n")
			if stream.Error != nil {
				return stream.Error
			}
			if stream.Buffered() >= ChunkSize {
				return stream.Flush()
			}
			return nil
		})
		if err != nil {
			return err
		}
		return stream.Flush()
	})
}
