package services

import "context"

// maxIDsPerRequest is the Spotify Web API's bound on bulk ID-list operations
// (library save/remove, follow checks).
const maxIDsPerRequest = 50

// chunkIDs partitions ids into consecutive groups of at most size.
func chunkIDs(ids []string, size int) [][]string {
	if size <= 0 {
		size = maxIDsPerRequest
	}

	var chunks [][]string
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

// chunkedCollect issues one request per chunk in order and concatenates the
// per-chunk results, preserving input positions. Empty input short-circuits
// to an empty result with no network call.
func chunkedCollect[T any](ctx context.Context, c *SpotifyClient, ids []string, fn func([]string) ([]T, error)) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}

	merged := make([]T, 0, len(ids))
	for _, chunk := range chunkIDs(ids, maxIDsPerRequest) {
		if err := c.pace(ctx); err != nil {
			return nil, err
		}
		results, err := fn(chunk)
		if err != nil {
			return nil, err
		}
		merged = append(merged, results...)
	}
	return merged, nil
}

// chunkedApply issues one request per chunk in order. Overall success requires
// every chunk to succeed; the API offers no rollback for chunks already
// applied, so the first failure simply propagates. Empty input is trivially
// successful with no network call.
func chunkedApply(ctx context.Context, c *SpotifyClient, ids []string, fn func([]string) error) error {
	if len(ids) == 0 {
		return nil
	}

	for _, chunk := range chunkIDs(ids, maxIDsPerRequest) {
		if err := c.pace(ctx); err != nil {
			return err
		}
		if err := fn(chunk); err != nil {
			return err
		}
	}
	return nil
}

// pace blocks on the client's rate limiter when one is configured. Pacing
// only spaces requests out; failed requests are never retried.
func (c *SpotifyClient) pace(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return remoteError(err.Error())
	}
	return nil
}
