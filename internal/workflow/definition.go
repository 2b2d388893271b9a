package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-content-lifecycle/internal/domain"
	"github.com/goliatone/go-content-lifecycle/internal/runtimeconfig"
	"github.com/goliatone/go-content-lifecycle/pkg/interfaces"
)

var (
	// ErrDefinitionEntityRequired indicates the workflow definition lacks an entity identifier.
	ErrDefinitionEntityRequired = errors.New("workflow: definition entity required")
	// ErrDefinitionStatesRequired indicates the workflow definition does not declare any states.
	ErrDefinitionStatesRequired = errors.New("workflow: definition requires at least one state")
	// ErrStateNameRequired indicates a workflow state is missing its name.
	ErrStateNameRequired = errors.New("workflow: state name required")
	// ErrDuplicateState indicates duplicate workflow state names were declared.
	ErrDuplicateState = errors.New("workflow: duplicate state")
	// ErrDuplicateDefinition indicates multiple definitions were provided for the same entity.
	ErrDuplicateDefinition = errors.New("workflow: duplicate entity definition")
	// ErrTransitionNameRequired indicates a transition lacks a name.
	ErrTransitionNameRequired = errors.New("workflow: transition name required")
	// ErrTransitionStateUnknown indicates a transition references a state that was not declared.
	ErrTransitionStateUnknown = errors.New("workflow: transition references unknown state")
	// ErrDuplicateTransition indicates the same transition name is declared multiple times for a state.
	ErrDuplicateTransition = errors.New("workflow: duplicate transition for state")
	// ErrInitialStateInvalid indicates the supplied initial state flag is inconsistent or unknown.
	ErrInitialStateInvalid = errors.New("workflow: invalid initial state")
)

// stateSet tracks declared state names so transitions can be validated against
// them. Keys are normalized stage names.
type stateSet map[string]struct{}

func (s stateSet) has(state interfaces.WorkflowState) bool {
	_, ok := s[string(state)]
	return ok
}

// CompileDefinitionConfigs turns declarative workflow configuration into
// engine-ready definitions, validating state and transition consistency.
func CompileDefinitionConfigs(configs []runtimeconfig.WorkflowDefinitionConfig) ([]interfaces.WorkflowDefinition, error) {
	if len(configs) == 0 {
		return nil, nil
	}

	definitions := make([]interfaces.WorkflowDefinition, 0, len(configs))
	seenEntities := make(map[string]struct{}, len(configs))

	for _, cfg := range configs {
		definition, err := compileDefinitionConfig(cfg)
		if err != nil {
			return nil, err
		}

		if _, exists := seenEntities[definition.EntityType]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDefinition, definition.EntityType)
		}
		seenEntities[definition.EntityType] = struct{}{}
		definitions = append(definitions, definition)
	}

	return definitions, nil
}

func compileDefinitionConfig(cfg runtimeconfig.WorkflowDefinitionConfig) (interfaces.WorkflowDefinition, error) {
	entity := strings.TrimSpace(cfg.Entity)
	if entity == "" {
		return interfaces.WorkflowDefinition{}, ErrDefinitionEntityRequired
	}

	if len(cfg.States) == 0 {
		return interfaces.WorkflowDefinition{}, fmt.Errorf("%w: %s", ErrDefinitionStatesRequired, entity)
	}

	declared, states, initial, err := compileStates(cfg.States)
	if err != nil {
		return interfaces.WorkflowDefinition{}, err
	}

	transitions, err := compileTransitions(cfg.Transitions, declared)
	if err != nil {
		return interfaces.WorkflowDefinition{}, err
	}

	return interfaces.WorkflowDefinition{
		EntityType:   strings.ToLower(entity),
		InitialState: initial,
		States:       states,
		Transitions:  transitions,
	}, nil
}

func compileStates(configs []runtimeconfig.WorkflowStateConfig) (stateSet, []interfaces.WorkflowStateDefinition, interfaces.WorkflowState, error) {
	declared := make(stateSet, len(configs))
	states := make([]interfaces.WorkflowStateDefinition, 0, len(configs))

	var initial interfaces.WorkflowState
	for idx, cfg := range configs {
		name := strings.TrimSpace(cfg.Name)
		if name == "" {
			return nil, nil, "", fmt.Errorf("%w at index %d", ErrStateNameRequired, idx)
		}

		normalized := interfaces.WorkflowState(domain.NormalizeStage(name))
		if declared.has(normalized) {
			return nil, nil, "", fmt.Errorf("%w: %s", ErrDuplicateState, normalized)
		}
		declared[string(normalized)] = struct{}{}

		if cfg.Initial {
			if initial != "" {
				return nil, nil, "", ErrInitialStateInvalid
			}
			initial = normalized
		}

		states = append(states, interfaces.WorkflowStateDefinition{
			Name:        normalized,
			Description: strings.TrimSpace(cfg.Description),
			Terminal:    cfg.Terminal,
		})
	}

	// Without an explicit flag the first declared state opens the workflow.
	if initial == "" {
		initial = states[0].Name
	}
	if !declared.has(initial) {
		return nil, nil, "", fmt.Errorf("%w: %s", ErrInitialStateInvalid, initial)
	}

	return declared, states, initial, nil
}

func compileTransitions(configs []runtimeconfig.WorkflowTransitionConfig, declared stateSet) ([]interfaces.WorkflowTransition, error) {
	if len(configs) == 0 {
		return nil, nil
	}

	transitions := make([]interfaces.WorkflowTransition, 0, len(configs))
	seen := make(map[string]struct{}, len(configs))

	for idx, cfg := range configs {
		name := strings.TrimSpace(cfg.Name)
		if name == "" {
			return nil, fmt.Errorf("%w at index %d", ErrTransitionNameRequired, idx)
		}

		fromRaw := strings.TrimSpace(cfg.From)
		toRaw := strings.TrimSpace(cfg.To)
		if fromRaw == "" || toRaw == "" {
			return nil, fmt.Errorf("%w: %s -> %s", ErrTransitionStateUnknown, cfg.From, cfg.To)
		}

		from := interfaces.WorkflowState(domain.NormalizeStage(fromRaw))
		to := interfaces.WorkflowState(domain.NormalizeStage(toRaw))
		if !declared.has(from) {
			return nil, fmt.Errorf("%w: %s", ErrTransitionStateUnknown, from)
		}
		if !declared.has(to) {
			return nil, fmt.Errorf("%w: %s", ErrTransitionStateUnknown, to)
		}

		key := transitionKey(name, from)
		if _, exists := seen[key]; exists {
			return nil, fmt.Errorf("%w: %s from %s", ErrDuplicateTransition, name, from)
		}
		seen[key] = struct{}{}

		transitions = append(transitions, interfaces.WorkflowTransition{
			Name:        name,
			Description: strings.TrimSpace(cfg.Description),
			From:        from,
			To:          to,
			Guard:       strings.TrimSpace(cfg.Guard),
		})
	}

	return transitions, nil
}

func transitionKey(name string, from interfaces.WorkflowState) string {
	return strings.ToLower(name) + "::" + string(from)
}
