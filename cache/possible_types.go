package cache

import "fmt"

// TypenameField is the discriminator key GraphQL payloads carry when the
// query selected __typename.
const TypenameField = "__typename"

// typeResolver decides which concrete type a polymorphic payload normalizes
// under. It is built once at construction from the possible-types mapping and
// the per-type discriminator fields, and is read-only afterwards.
type typeResolver struct {
	possible       map[string][]string
	discriminators map[string][]string
}

func newTypeResolver(possible map[string][]string, policies map[string]TypePolicy) *typeResolver {
	r := &typeResolver{
		possible:       make(map[string][]string, len(possible)),
		discriminators: make(map[string][]string),
	}
	for abstract, concretes := range possible {
		r.possible[abstract] = append([]string(nil), concretes...)
	}
	for name, policy := range policies {
		if len(policy.DiscriminatorFields) > 0 {
			r.discriminators[name] = append([]string(nil), policy.DiscriminatorFields...)
		}
	}
	return r
}

// IsAbstract reports whether name is an abstract (union/interface) type.
func (r *typeResolver) IsAbstract(name string) bool {
	_, ok := r.possible[name]
	return ok
}

// Resolve selects the concrete type a payload of the given abstract type
// normalizes under. An explicit type tag wins when it names a registered
// candidate; otherwise the first candidate whose discriminator fields are all
// present in the payload is chosen.
func (r *typeResolver) Resolve(abstract string, payload map[string]any) (string, error) {
	candidates, ok := r.possible[abstract]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownType, abstract)
	}

	if tag, ok := payload[TypenameField].(string); ok && tag != "" {
		for _, candidate := range candidates {
			if candidate == tag {
				return candidate, nil
			}
		}
		return "", fmt.Errorf("%w: %s tagged as %s which is not a member", ErrUnresolvedType, abstract, tag)
	}

	for _, candidate := range candidates {
		fields := r.discriminators[candidate]
		if len(fields) == 0 {
			continue
		}
		if hasAllFields(payload, fields) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: %s payload carries no type tag and matches no candidate", ErrUnresolvedType, abstract)
}

func hasAllFields(payload map[string]any, fields []string) bool {
	for _, f := range fields {
		if _, ok := payload[f]; !ok {
			return false
		}
	}
	return true
}
