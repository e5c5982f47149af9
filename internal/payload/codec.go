package payload

import (
	"encoding/json"
	"fmt"

	"github.com/geocache/stc/internal/stcerr"
)

// wireEnvelope is the JSON-on-the-wire shape used by the remote Cache
// Structure backend: one discriminator plus exactly one populated
// payload field, the same tagged-union-over-the-wire approach the
// original's GenericPlot::toJSON/deserialize pair used for plots,
// generalized here to every payload kind.
type wireEnvelope struct {
	Kind     Kind              `json:"kind"`
	Raster   *Raster           `json:"raster,omitempty"`
	Points   *wireFeatures     `json:"points,omitempty"`
	Lines    *wireFeatures     `json:"lines,omitempty"`
	Polygons *wireFeatures     `json:"polygons,omitempty"`
	Plot     *Plot             `json:"plot,omitempty"`
}

type wireFeatures struct {
	FeatureCollection
}

// Marshal encodes p for storage in the remote backend.
func Marshal(p Payload) ([]byte, error) {
	env := wireEnvelope{Kind: p.Kind()}
	switch v := p.(type) {
	case *Raster:
		env.Raster = v
	case *Points:
		env.Points = &wireFeatures{v.FeatureCollection}
	case *Lines:
		env.Lines = &wireFeatures{v.FeatureCollection}
	case *Polygons:
		env.Polygons = &wireFeatures{v.FeatureCollection}
	case *Plot:
		env.Plot = v
	default:
		return nil, fmt.Errorf("payload: marshal: unknown kind %T: %w", p, stcerr.ErrArgument)
	}
	b, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("payload: marshal: %w", err)
	}
	return b, nil
}

// Unmarshal decodes a payload previously written by Marshal.
func Unmarshal(b []byte) (Payload, error) {
	var env wireEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("payload: unmarshal: %w", err)
	}
	switch env.Kind {
	case KindRaster:
		if env.Raster == nil {
			return nil, fmt.Errorf("payload: unmarshal: raster envelope missing body: %w", stcerr.ErrArgument)
		}
		return env.Raster, nil
	case KindPoints:
		if env.Points == nil {
			return nil, fmt.Errorf("payload: unmarshal: points envelope missing body: %w", stcerr.ErrArgument)
		}
		return &Points{FeatureCollection: env.Points.FeatureCollection}, nil
	case KindLines:
		if env.Lines == nil {
			return nil, fmt.Errorf("payload: unmarshal: lines envelope missing body: %w", stcerr.ErrArgument)
		}
		return &Lines{FeatureCollection: env.Lines.FeatureCollection}, nil
	case KindPolygons:
		if env.Polygons == nil {
			return nil, fmt.Errorf("payload: unmarshal: polygons envelope missing body: %w", stcerr.ErrArgument)
		}
		return &Polygons{FeatureCollection: env.Polygons.FeatureCollection}, nil
	case KindPlot:
		if env.Plot == nil {
			return nil, fmt.Errorf("payload: unmarshal: plot envelope missing body: %w", stcerr.ErrArgument)
		}
		return env.Plot, nil
	default:
		return nil, fmt.Errorf("payload: unmarshal: unknown kind %d: %w", env.Kind, stcerr.ErrArgument)
	}
}
