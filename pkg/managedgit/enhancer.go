package managedgit

import "context"

// Enhancer transforms a value of type V given a context of type C. Content
// enhancers and structure populators are both enhancers.
type Enhancer[C, V any] interface {
	Enhance(ctx context.Context, c C, v V) (V, error)
}

// EnhancerFunc adapts a function to Enhancer.
type EnhancerFunc[C, V any] func(ctx context.Context, c C, v V) (V, error)

// Enhance calls f.
func (f EnhancerFunc[C, V]) Enhance(ctx context.Context, c C, v V) (V, error) {
	return f(ctx, c, v)
}

// Pipeline runs enhancers in order, feeding each the previous result. The
// first error stops the pipeline.
type Pipeline[C, V any] []Enhancer[C, V]

// Enhance implements Enhancer.
func (p Pipeline[C, V]) Enhance(ctx context.Context, c C, v V) (V, error) {
	var err error
	for _, e := range p {
		if v, err = e.Enhance(ctx, c, v); err != nil {
			return v, err
		}
	}
	return v, nil
}

var (
	_ ContentEnhancer = EnhancerFunc[ContentContext, Content](nil)
	_ ContentEnhancer = Pipeline[ContentContext, Content](nil)
)
