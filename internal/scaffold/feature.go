package scaffold

import (
	"fmt"
	"strconv"

	"github.com/langcontroller/langcontroller/internal/names"
)

// MaxAttributes is the number of attribute slots a generated model class carries.
const MaxAttributes = 3

// FeatureSpec describes one feature addition. Source is nil for a terminal
// feature and set for a linked feature derived from an upstream identity.
type FeatureSpec struct {
	Source     *names.Forms
	Target     names.Forms
	Attributes []names.Forms
}

// NewTerminalFeature parses a feature with no upstream source.
func NewTerminalFeature(targetRaw string, attributesRaw ...string) (FeatureSpec, error) {
	target, err := names.Parse(targetRaw)
	if err != nil {
		return FeatureSpec{}, err
	}
	attrs, err := parseAttributes(attributesRaw)
	if err != nil {
		return FeatureSpec{}, err
	}
	return FeatureSpec{Target: target, Attributes: attrs}, nil
}

// NewLinkedFeature parses a feature whose target is derived from source. The
// source is not checked against previously generated features.
func NewLinkedFeature(sourceRaw, targetRaw string, attributesRaw ...string) (FeatureSpec, error) {
	source, err := names.Parse(sourceRaw)
	if err != nil {
		return FeatureSpec{}, err
	}
	spec, err := NewTerminalFeature(targetRaw, attributesRaw...)
	if err != nil {
		return FeatureSpec{}, err
	}
	spec.Source = &source
	return spec, nil
}

func parseAttributes(raw []string) ([]names.Forms, error) {
	if len(raw) == 0 || len(raw) > MaxAttributes {
		return nil, &AttributeCountError{Got: len(raw)}
	}
	attrs := make([]names.Forms, 0, len(raw))
	for _, r := range raw {
		forms, err := names.Parse(r)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, forms)
	}
	return attrs, nil
}

// Linked reports whether the feature has an upstream source.
func (f FeatureSpec) Linked() bool {
	return f.Source != nil
}

// PromptName is the identity of the prompt file the feature owns: the target
// slug, or "<source>-to-<target>" for a linked feature.
func (f FeatureSpec) PromptName() names.Slug {
	if f.Source == nil {
		return f.Target.Slug
	}
	return names.Slug(fmt.Sprintf("%s-to-%s", f.Source.Slug, f.Target.Slug))
}

// Context builds the template variables shared by every artifact of the feature.
// Unused attribute slots are present and empty.
func (f FeatureSpec) Context(processor, promptExtension string) map[string]string {
	ctx := f.Target.Context("target")
	if f.Source != nil {
		merge(ctx, f.Source.Context("source"))
	}
	for i := 0; i < MaxAttributes; i++ {
		prefix := "attribute_" + strconv.Itoa(i+1)
		if i < len(f.Attributes) {
			merge(ctx, f.Attributes[i].Context(prefix))
			continue
		}
		merge(ctx, names.Forms{}.Context(prefix))
	}
	ctx["prompt_name"] = f.PromptName().String()
	ctx["processor"] = processor
	ctx["prompt_extension"] = promptExtension
	return ctx
}

func merge(dst, src map[string]string) {
	for k, v := range src {
		dst[k] = v
	}
}
