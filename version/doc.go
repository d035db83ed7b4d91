// Package version reports build metadata for the hashall binary.
//
// Release builds inject values at link time:
//
//	go build -ldflags "-X github.com/dendrascience/hashall/version.Version=v1.0.0 \
//	  -X github.com/dendrascience/hashall/version.Commit=abc1234def \
//	  -X github.com/dendrascience/hashall/version.Date=2026-01-01T00:00:00Z"
//
// Development builds fall back to the VCS stamps in runtime/debug build info.
package version
