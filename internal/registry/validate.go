package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cardioml/cardioml/internal/ctxlog"
)

// Validate performs an integrity check over the whole catalog: every
// declared parent must itself resolve, and channel maps must assign a dense
// range of indices that fits the channel axis. All problems are reported at
// once so a catalog author can fix a file in one pass.
func (r *Registry) Validate(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	var errs []string

	names := make([]string, 0, len(r.maps))
	for name := range r.maps {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		tm := r.maps[name]

		for _, parent := range tm.Parents {
			if _, ok := r.maps[parent]; !ok {
				errs = append(errs, fmt.Sprintf("tensor map '%s': parent '%s' is not in the catalog", name, parent))
			}
		}

		// Shape problems make the channel-axis math below meaningless, so a
		// bad shape skips the rest of this map's checks.
		if len(tm.Shape) == 0 {
			errs = append(errs, fmt.Sprintf("tensor map '%s': shape must not be empty", name))
			continue
		}
		badShape := false
		for _, dim := range tm.Shape {
			if dim <= 0 {
				errs = append(errs, fmt.Sprintf("tensor map '%s': shape dimensions must be positive, got %d", name, dim))
				badShape = true
			}
		}
		if badShape {
			continue
		}

		if len(tm.ChannelMap) > 0 {
			channelAxis := tm.Shape[len(tm.Shape)-1]
			if len(tm.ChannelMap) > channelAxis {
				errs = append(errs, fmt.Sprintf("tensor map '%s': %d channels declared but channel axis has size %d", name, len(tm.ChannelMap), channelAxis))
			}
			seen := make(map[int]string, len(tm.ChannelMap))
			for channel, idx := range tm.ChannelMap {
				if idx < 0 || idx >= len(tm.ChannelMap) {
					errs = append(errs, fmt.Sprintf("tensor map '%s': channel '%s' index %d outside [0, %d)", name, channel, idx, len(tm.ChannelMap)))
					continue
				}
				if other, dup := seen[idx]; dup {
					errs = append(errs, fmt.Sprintf("tensor map '%s': channels '%s' and '%s' share index %d", name, other, channel, idx))
				}
				seen[idx] = channel
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	logger.Debug("Catalog validation passed.", "tensor_maps", len(r.maps))
	return nil
}
