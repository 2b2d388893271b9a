package workflow_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-content-lifecycle/internal/runtimeconfig"
	"github.com/goliatone/go-content-lifecycle/internal/workflow"
)

func TestCompileDefinitionConfigs_BuildsDefinition(t *testing.T) {
	configs := []runtimeconfig.WorkflowDefinitionConfig{
		{
			Entity: "Content",
			States: []runtimeconfig.WorkflowStateConfig{
				{Name: "draft", Initial: true},
				{Name: "in_review"},
				{Name: "approved"},
			},
			Transitions: []runtimeconfig.WorkflowTransitionConfig{
				{Name: "submit_review", From: "draft", To: "in_review"},
				{Name: "approve", From: "in_review", To: "approved"},
				{Name: "reject", From: "in_review", To: "draft"},
			},
		},
	}

	definitions, err := workflow.CompileDefinitionConfigs(configs)
	if err != nil {
		t.Fatalf("CompileDefinitionConfigs returned error: %v", err)
	}
	if len(definitions) != 1 {
		t.Fatalf("expected 1 definition, got %d", len(definitions))
	}
	def := definitions[0]
	if def.EntityType != "content" {
		t.Fatalf("expected entity type content, got %s", def.EntityType)
	}
	if string(def.InitialState) != "draft" {
		t.Fatalf("expected initial state draft, got %s", def.InitialState)
	}
	if len(def.States) != 3 {
		t.Fatalf("expected 3 states, got %d", len(def.States))
	}
	if len(def.Transitions) != 3 {
		t.Fatalf("expected 3 transitions, got %d", len(def.Transitions))
	}
}

func TestCompileDefinitionConfigs_DefaultsInitialToFirstState(t *testing.T) {
	configs := []runtimeconfig.WorkflowDefinitionConfig{
		{
			Entity: "content",
			States: []runtimeconfig.WorkflowStateConfig{
				{Name: "draft"},
				{Name: "published"},
			},
		},
	}

	definitions, err := workflow.CompileDefinitionConfigs(configs)
	if err != nil {
		t.Fatalf("CompileDefinitionConfigs returned error: %v", err)
	}
	if string(definitions[0].InitialState) != "draft" {
		t.Fatalf("expected initial state draft, got %s", definitions[0].InitialState)
	}
}

func TestCompileDefinitionConfigs_RejectsMissingEntity(t *testing.T) {
	configs := []runtimeconfig.WorkflowDefinitionConfig{
		{
			States: []runtimeconfig.WorkflowStateConfig{{Name: "draft"}},
		},
	}

	_, err := workflow.CompileDefinitionConfigs(configs)
	if !errors.Is(err, workflow.ErrDefinitionEntityRequired) {
		t.Fatalf("expected ErrDefinitionEntityRequired, got %v", err)
	}
}

func TestCompileDefinitionConfigs_RejectsDuplicateStates(t *testing.T) {
	configs := []runtimeconfig.WorkflowDefinitionConfig{
		{
			Entity: "content",
			States: []runtimeconfig.WorkflowStateConfig{
				{Name: "draft"},
				{Name: "Draft"},
			},
		},
	}

	_, err := workflow.CompileDefinitionConfigs(configs)
	if !errors.Is(err, workflow.ErrDuplicateState) {
		t.Fatalf("expected ErrDuplicateState, got %v", err)
	}
}

func TestCompileDefinitionConfigs_RejectsUnknownTransitionState(t *testing.T) {
	configs := []runtimeconfig.WorkflowDefinitionConfig{
		{
			Entity: "content",
			States: []runtimeconfig.WorkflowStateConfig{
				{Name: "draft"},
			},
			Transitions: []runtimeconfig.WorkflowTransitionConfig{
				{Name: "publish", From: "draft", To: "published"},
			},
		},
	}

	_, err := workflow.CompileDefinitionConfigs(configs)
	if !errors.Is(err, workflow.ErrTransitionStateUnknown) {
		t.Fatalf("expected ErrTransitionStateUnknown, got %v", err)
	}
}

func TestCompileDefinitionConfigs_RejectsDuplicateEntities(t *testing.T) {
	configs := []runtimeconfig.WorkflowDefinitionConfig{
		{
			Entity: "content",
			States: []runtimeconfig.WorkflowStateConfig{{Name: "draft"}},
		},
		{
			Entity: "Content",
			States: []runtimeconfig.WorkflowStateConfig{{Name: "draft"}},
		},
	}

	_, err := workflow.CompileDefinitionConfigs(configs)
	if !errors.Is(err, workflow.ErrDuplicateDefinition) {
		t.Fatalf("expected ErrDuplicateDefinition, got %v", err)
	}
}
