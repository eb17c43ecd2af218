package manifest

import (
	"bytes"
	"context"
	"io"
	"path"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/jmgilman/go/filecollection/errors"
)

// Format is a manifest encoding.
type Format string

const (
	// FormatCUE is a CUE document whose top-level struct is the expression.
	FormatCUE Format = "cue"

	// FormatYAML is a YAML document. JSON manifests are read as YAML.
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(p string) (Format, error) {
	switch strings.ToLower(path.Ext(p)) {
	case ".cue":
		return FormatCUE, nil
	case ".yaml", ".yml", ".json":
		return FormatYAML, nil
	default:
		return "", errors.WithContext(
			errors.New(errors.CodeManifestLoadFailed, "unsupported manifest extension"),
			"path", p,
		)
	}
}

// Decode parses data in format into a validated expression.
//
// Returns CodeManifestLoadFailed when data cannot be parsed or compiled.
// Returns CodeManifestDecodeFailed when it parses but is not a valid
// collection expression.
func Decode(ctx context.Context, data []byte, format Format) (*Spec, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeManifestLoadFailed, "context cancelled before decoding")
	}

	var (
		spec Spec
		err  error
	)
	switch format {
	case FormatCUE:
		err = decodeCUE(data, &spec)
	case FormatYAML:
		err = decodeYAML(data, &spec)
	default:
		return nil, errors.Newf(errors.CodeManifestLoadFailed, "unsupported manifest format %q", format)
	}
	if err != nil {
		return nil, err
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

func decodeCUE(data []byte, spec *Spec) error {
	value := cuecontext.New().CompileBytes(data)
	if err := value.Err(); err != nil {
		return errors.Wrap(err, errors.CodeManifestLoadFailed, "failed to compile CUE manifest")
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return errors.Wrap(err, errors.CodeManifestDecodeFailed, "CUE manifest is not concrete")
	}
	if err := value.Decode(spec); err != nil {
		return errors.Wrap(err, errors.CodeManifestDecodeFailed, "failed to decode CUE manifest")
	}
	return nil
}

func decodeYAML(data []byte, spec *Spec) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	err := dec.Decode(spec)
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) {
		return errors.New(errors.CodeManifestDecodeFailed, "YAML manifest is empty")
	}

	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) {
		return errors.Wrap(err, errors.CodeManifestDecodeFailed, "failed to decode YAML manifest")
	}
	return errors.Wrap(err, errors.CodeManifestLoadFailed, "failed to parse YAML manifest")
}
