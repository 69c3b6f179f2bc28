package batch

import (
	"ipapi-go/errors"
	"ipapi-go/types"
)

// Chunk splits an ordered query sequence into batches of at most
// maxSize, preserving input order: batch i contains the queries at
// positions [i*maxSize, (i+1)*maxSize). Concatenating the batches
// reproduces the input exactly. The batches share the input's backing
// array; callers must not mutate the input afterwards.
func Chunk(queries []types.Query, maxSize int) ([][]types.Query, error) {
	if maxSize < 1 {
		return nil, &errors.ConfigurationError{
			Param:  "maxSize",
			Reason: "must be >= 1",
		}
	}

	batches := make([][]types.Query, 0, (len(queries)+maxSize-1)/maxSize)
	for start := 0; start < len(queries); start += maxSize {
		end := min(start+maxSize, len(queries))
		batches = append(batches, queries[start:end])
	}
	return batches, nil
}
