// Package identity enriches a TitleRef with cross-service IDs.
package identity

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/kinohive-io/kino-addon/services/media"
	"github.com/kinohive-io/kino-addon/services/tmdb"
)

// Resolver fills imdb/tvdb IDs from the metadata service. It never fails:
// on any error the original ref is returned unchanged.
type Resolver struct {
	api *tmdb.Api
}

func New(api *tmdb.Api) *Resolver {
	return &Resolver{api: api}
}

// Enrich resolves external IDs for the ref when a metadata-service ID is
// known. Episode refs are enriched through their show.
func (r *Resolver) Enrich(ctx context.Context, ref *media.TitleRef) *media.TitleRef {
	if r.api == nil || ref == nil {
		return ref
	}
	target := ref
	kind := ref.Kind
	if ref.Kind == media.KindEpisode {
		if ref.Show == nil {
			return ref
		}
		target = ref.Show
		kind = media.KindShow
	}
	if target.TmdbID == 0 || (target.ImdbID != "" && target.TvdbID != 0) {
		return ref
	}

	ids, err := r.api.GetExternalIDs(ctx, kind, target.TmdbID)
	if err != nil {
		log.WithError(err).
			WithField("tmdb_id", target.TmdbID).
			Warn("failed to resolve external ids")
		return ref
	}
	enriched := *target
	if enriched.ImdbID == "" {
		enriched.ImdbID = ids.ImdbID
	}
	if enriched.TvdbID == 0 {
		enriched.TvdbID = ids.TvdbID
	}
	if ref.Kind == media.KindEpisode {
		out := *ref
		out.Show = &enriched
		return &out
	}
	return &enriched
}
