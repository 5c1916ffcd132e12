package manifest

import (
	"bytes"
	"encoding/json"
	"os"

	goversion "github.com/hashicorp/go-version"

	"github.com/cperrin88/assetfetch/pkg/errors"
	"github.com/cperrin88/assetfetch/pkg/fsutil"
)

// Manifest spec versions. Documents older than MinSupportedVersion are
// rejected at parse time.
const (
	SpecVersion         = "1.1.0"
	MinSupportedVersion = "1.0.0"
)

// fromAlternate is the alternate name under which the original remote href is
// recorded after a download rewrites an asset href to a local path.
const fromAlternate = "from"

type document struct {
	ID      string            `json:"id"`
	Version string            `json:"version,omitempty"`
	Links   []Link            `json:"links,omitempty"`
	Assets  map[string]*Asset `json:"assets"`

	// orderedKeys preserves the key order of the assets object as it
	// appeared in the source document.
	orderedKeys []string
}

func (d *document) UnmarshalJSON(data []byte) error {
	type alias document
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*d = document(a)
	d.orderedKeys = assetKeyOrder(data)
	return nil
}

// assetKeyOrder extracts the key order of the top-level "assets" object.
// Encoding/json maps lose ordering, so the raw message is tokenized instead.
func assetKeyOrder(data []byte) []string {
	var raw struct {
		Assets json.RawMessage `json:"assets"`
	}
	if err := json.Unmarshal(data, &raw); err != nil || raw.Assets == nil {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw.Assets))
	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return nil
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return keys
		}
		key, ok := tok.(string)
		if !ok {
			return keys
		}
		keys = append(keys, key)
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return keys
		}
	}
	return keys
}

// ParseDocument parses a manifest document into an Owner, preserving the
// asset key order of the source and rejecting unsupported versions.
func ParseDocument(data []byte) (*Owner, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrManifestParse, err.Error())
	}
	if err := checkVersion(doc.Version); err != nil {
		return nil, err
	}

	owner := NewOwner(doc.ID)
	owner.version = doc.Version
	owner.links = doc.Links
	for _, key := range doc.orderedKeys {
		if asset := doc.Assets[key]; asset != nil {
			if alt, ok := asset.Alternates[fromAlternate]; ok {
				asset.OriginalHref = alt.Href
			}
			owner.SetAsset(key, asset)
		}
	}
	return owner, nil
}

// ReadFile parses the manifest document stored at path.
func ReadFile(path string) (*Owner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read manifest %s", path)
	}
	return ParseDocument(data)
}

// orderedAssets marshals an asset mapping with its keys in insertion order
// instead of encoding/json's alphabetical map order.
type orderedAssets struct {
	keys   []string
	assets map[string]*Asset
}

func (a orderedAssets) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range a.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(a.assets[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Document serializes the owner back into its JSON document form, keeping the
// asset keys in insertion order. Assets with a recorded original href get it
// written as the "from" alternate.
func (o *Owner) Document() ([]byte, error) {
	assets := make(map[string]*Asset, len(o.assets))
	for key, asset := range o.assets {
		out := asset.Clone()
		if out.OriginalHref != "" {
			if out.Alternates == nil {
				out.Alternates = make(map[string]Alternate, 1)
			}
			out.Alternates[fromAlternate] = Alternate{Href: out.OriginalHref}
		}
		assets[key] = out
	}
	version := o.version
	if version == "" {
		version = SpecVersion
	}
	return json.MarshalIndent(struct {
		ID      string        `json:"id"`
		Version string        `json:"version,omitempty"`
		Links   []Link        `json:"links,omitempty"`
		Assets  orderedAssets `json:"assets"`
	}{
		ID:      o.id,
		Version: version,
		Links:   o.links,
		Assets:  orderedAssets{keys: o.AssetKeys(), assets: assets},
	}, "", "  ")
}

// WriteFile serializes the owner and writes it to path.
func (o *Owner) WriteFile(path string) error {
	data, err := o.Document()
	if err != nil {
		return err
	}
	if err := fsutil.EnsureFileDir(path); err != nil {
		return errors.Wrap(err, "could not create manifest directory")
	}
	return os.WriteFile(path, data, fsutil.FileModeDefault)
}

func checkVersion(raw string) error {
	if raw == "" {
		return nil
	}
	v, err := goversion.NewVersion(raw)
	if err != nil {
		return errors.Wrapf(errors.ErrManifestVersion, "cannot parse version %q", raw)
	}
	minimum := goversion.Must(goversion.NewVersion(MinSupportedVersion))
	if v.LessThan(minimum) {
		return errors.Wrapf(errors.ErrManifestVersion, "version %s is older than %s", raw, MinSupportedVersion)
	}
	return nil
}
