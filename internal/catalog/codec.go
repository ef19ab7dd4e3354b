package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// UnmarshalComponent decodes a single component from its tagged JSON form.
// Unknown component types and unknown fields are contract violations; the
// decoded value is also validated against catalog bounds before being returned.
func UnmarshalComponent(data []byte) (Component, error) {
	var probe struct {
		ComponentType ComponentType `json:"component_type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("component is not a JSON object: %w", err)
	}

	component, err := newByType(probe.ComponentType)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(component); err != nil {
		return nil, fmt.Errorf("%s: strict decode failed: %w", probe.ComponentType, err)
	}

	if err := component.Validate(); err != nil {
		return nil, err
	}
	return component, nil
}

func newByType(ct ComponentType) (Component, error) {
	switch ct {
	case TypeInfoCard:
		return &InfoCard{}, nil
	case TypeMapCard:
		return &MapCard{}, nil
	case TypeVideoFeed:
		return &VideoFeed{}, nil
	case TypeEventCalendar:
		return &EventCalendar{}, nil
	case TypeTaskList:
		return &TaskList{}, nil
	case TypeContentCard:
		return &ContentCard{}, nil
	default:
		return nil, fmt.Errorf("unknown component_type %q", ct)
	}
}

// ComponentSet is the bounded, validated output of the selection stage.
type ComponentSet struct {
	Components []Component `json:"components"`
	Reasoning  string      `json:"reasoning,omitempty"`
}

// Validate checks the set-level invariant 1 <= len <= maxComponents as well as
// every member component.
func (s *ComponentSet) Validate(maxComponents int) error {
	if maxComponents <= 0 || maxComponents > MaxComponents {
		maxComponents = MaxComponents
	}
	if len(s.Components) < 1 || len(s.Components) > maxComponents {
		return fmt.Errorf("component count %d outside [1,%d]", len(s.Components), maxComponents)
	}
	for _, c := range s.Components {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// UnmarshalJSON decodes a set whose components arrive in tagged form. Any
// single invalid component fails the whole decode; callers that want
// per-candidate tolerance decode the raw envelope themselves.
func (s *ComponentSet) UnmarshalJSON(data []byte) error {
	var envelope struct {
		Components []json.RawMessage `json:"components"`
		Reasoning  string            `json:"reasoning"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}

	components := make([]Component, 0, len(envelope.Components))
	for i, raw := range envelope.Components {
		component, err := UnmarshalComponent(raw)
		if err != nil {
			return fmt.Errorf("component %d: %w", i, err)
		}
		components = append(components, component)
	}

	s.Components = components
	s.Reasoning = envelope.Reasoning
	return nil
}
