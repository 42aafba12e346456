package main

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	geography "github.com/tingold/orb-geography"
	"github.com/tingold/orb-geography/fgb"
	"github.com/tingold/orb-geography/internal/config"

	"github.com/jessevdk/go-flags"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"
)

// maxLine bounds a single hex EWKB input line.
const maxLine = 64 << 20

func addCommands(parser *flags.Parser) {
	commands := []struct {
		name, short, long string
		data              interface{}
	}{
		{"decode", "Decode hex EWKB", "Decode hex EWKB values, one per line or argument, to GeoJSON, WKT or EWKT.", &decodeCommand{}},
		{"encode", "Encode GeoJSON to hex EWKB", "Encode a GeoJSON geometry, feature or feature collection from stdin to hex EWKB lines.", &encodeCommand{}},
		{"export", "Export hex EWKB to FlatGeobuf", "Read hex EWKB lines from stdin and write them to a FlatGeobuf file.", &exportCommand{}},
		{"import", "Import FlatGeobuf to hex EWKB", "Read a FlatGeobuf file and print one hex EWKB line per feature.", &importCommand{}},
	}

	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, c.long, c.data); err != nil {
			log.Fatal().Err(err).Str("command", c.name).Msg("Failed to register command")
		}
	}
}

type decodeCommand struct {
	Format string `short:"f" long:"format" description:"Output format (default from config)" choice:"geojson" choice:"wkt" choice:"ewkt"`

	Args struct {
		Values []string `positional-arg-name:"HEX"`
	} `positional-args:"yes"`
}

func (c *decodeCommand) Execute(_ []string) error {
	format := c.Format
	if format == "" {
		format = cfg.Format
	}

	var in io.Reader = os.Stdin
	if len(c.Args.Values) > 0 {
		in = strings.NewReader(strings.Join(c.Args.Values, "\n"))
	}

	geometries, err := readGeometries(in)
	if err != nil {
		return err
	}

	log.Debug().Int("values", len(geometries)).Str("format", format).Msg("Decoded values")
	return writeDecoded(os.Stdout, geometries, format)
}

type encodeCommand struct {
	SRID  string `short:"s" long:"srid" description:"SRID for values without a srid property, or 'none' (default from config)"`
	Upper bool   `short:"u" long:"upper" description:"Print upper case hex like PostGIS"`
}

func (c *encodeCommand) Execute(_ []string) error {
	srid, err := parseSRID(c.SRID, cfg.SpatialRef())
	if err != nil {
		return err
	}

	n, err := encodeGeoJSON(os.Stdin, os.Stdout, srid, c.Upper)
	if err != nil {
		return err
	}

	log.Debug().Int("values", n).Stringer("srid", srid).Msg("Encoded values")
	return nil
}

type exportCommand struct {
	Name        string `short:"n" long:"name" description:"Layer name (default from config)"`
	Description string `short:"d" long:"description" description:"Layer description (default from config)"`
	NoIndex     bool   `long:"no-index" description:"Skip the spatial index"`

	Args struct {
		Output string `positional-arg-name:"OUTPUT" description:"FlatGeobuf file to write" required:"yes"`
	} `positional-args:"yes"`
}

func (c *exportCommand) Execute(_ []string) error {
	geometries, err := readGeometries(os.Stdin)
	if err != nil {
		return err
	}

	opts := &fgb.Options{
		Name:         firstNonEmpty(c.Name, cfg.Layer.Name),
		Description:  firstNonEmpty(c.Description, cfg.Layer.Description),
		IncludeIndex: !(c.NoIndex || cfg.Layer.NoIndex),
	}
	if err := exportFGB(c.Args.Output, geometries, opts); err != nil {
		return err
	}

	log.Info().
		Str("path", c.Args.Output).
		Int("features", len(geometries)).
		Bool("index", opts.IncludeIndex).
		Msg("FlatGeobuf written")
	return nil
}

type importCommand struct {
	Upper bool `short:"u" long:"upper" description:"Print upper case hex like PostGIS"`

	Args struct {
		Input string `positional-arg-name:"INPUT" description:"FlatGeobuf file to read" required:"yes"`
	} `positional-args:"yes"`
}

func (c *importCommand) Execute(_ []string) error {
	geometries, header, err := importFGB(c.Args.Input)
	if err != nil {
		return err
	}

	event := log.Info().
		Str("path", c.Args.Input).
		Str("layer", header.Name).
		Str("type", header.GeometryType).
		Int("features", len(geometries))
	if header.CRS != nil {
		event = event.Int("crs", header.CRS.Code)
	}
	event.Msg("FlatGeobuf read")

	return writeHex(os.Stdout, geometries, c.Upper)
}

// readGeometries decodes one hex EWKB value per non-blank line.
func readGeometries(r io.Reader) ([]geography.Geometry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)

	var geometries []geography.Geometry
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		data, err := hex.DecodeString(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		g, err := geography.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		geometries = append(geometries, g)
	}

	return geometries, scanner.Err()
}

// writeDecoded prints one rendering per line. GeoJSON output is a Feature
// carrying the SRID as a property, so encode can read it back.
func writeDecoded(w io.Writer, geometries []geography.Geometry, format string) error {
	for _, g := range geometries {
		var out string

		switch format {
		case config.FormatWKT:
			out = wkt.MarshalString(g.OrbGeometry())
		case config.FormatEWKT:
			out = fmt.Sprint(g)
		case config.FormatGeoJSON:
			f := geojson.NewFeature(g.OrbGeometry())
			if srid := g.SpatialRef(); srid.Valid {
				f.Properties["srid"] = srid.ID
			}
			data, err := f.MarshalJSON()
			if err != nil {
				return err
			}
			out = string(data)
		default:
			return fmt.Errorf("unknown format %q", format)
		}

		if _, err := fmt.Fprintln(w, out); err != nil {
			return err
		}
	}
	return nil
}

// encodeGeoJSON encodes every geometry in a GeoJSON document. A feature's
// "srid" property wins over srid; a null property means no SRID.
func encodeGeoJSON(r io.Reader, w io.Writer, srid geography.SRID, upper bool) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}

	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return 0, fmt.Errorf("geojson: %w", err)
	}

	var features []*geojson.Feature
	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return 0, err
		}
		features = fc.Features
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return 0, err
		}
		features = []*geojson.Feature{f}
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return 0, err
		}
		features = []*geojson.Feature{geojson.NewFeature(g.Geometry())}
	}

	geometries := make([]geography.Geometry, 0, len(features))
	for i, f := range features {
		fsrid, err := featureSRID(f, srid)
		if err != nil {
			return 0, fmt.Errorf("feature %d: %w", i, err)
		}
		g, err := geography.FromOrb(f.Geometry, fsrid)
		if err != nil {
			return 0, fmt.Errorf("feature %d: %w", i, err)
		}
		geometries = append(geometries, g)
	}

	return len(geometries), writeHex(w, geometries, upper)
}

// featureSRID reads a feature's "srid" property. A missing property means
// def and null means absent; anything but an int32 integer is an error.
func featureSRID(f *geojson.Feature, def geography.SRID) (geography.SRID, error) {
	v, ok := f.Properties["srid"]
	if !ok {
		return def, nil
	}

	switch id := v.(type) {
	case nil:
		return geography.SRID{}, nil
	case float64:
		if id != math.Trunc(id) || id < math.MinInt32 || id > math.MaxInt32 {
			return geography.SRID{}, fmt.Errorf("invalid srid %v", id)
		}
		return geography.NewSRID(int32(id)), nil
	case int32:
		return geography.NewSRID(id), nil
	default:
		return geography.SRID{}, fmt.Errorf("invalid srid %#v: expected an integer or null", v)
	}
}

func writeHex(w io.Writer, geometries []geography.Geometry, upper bool) error {
	for _, g := range geometries {
		data, err := g.MarshalEWKB()
		if err != nil {
			return err
		}

		out := hex.EncodeToString(data)
		if upper {
			out = strings.ToUpper(out)
		}
		if _, err := fmt.Fprintln(w, out); err != nil {
			return err
		}
	}
	return nil
}

func exportFGB(path string, geometries []geography.Geometry, opts *fgb.Options) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	return fgb.Write(file, geometries, opts)
}

func importFGB(path string) ([]geography.Geometry, *fgb.Header, error) {
	reader, err := fgb.NewReader(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = reader.Close() }()

	geometries, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	return geometries, reader.Header(), nil
}

// parseSRID reads an SRID flag value. Empty means def; "none" means absent.
func parseSRID(s string, def geography.SRID) (geography.SRID, error) {
	switch strings.ToLower(s) {
	case "":
		return def, nil
	case "none", "null":
		return geography.SRID{}, nil
	}

	id, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return geography.SRID{}, fmt.Errorf("invalid srid %q: %w", s, err)
	}
	return geography.NewSRID(int32(id)), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
