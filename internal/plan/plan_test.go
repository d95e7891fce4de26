package plan

import "testing"

func TestNormalize_CountFallbacks(t *testing.T) {
	tests := []struct {
		name        string
		planned     int
		forced      int
		wantCount   int
	}{
		{"planner count kept", 3, 0, 3},
		{"zero falls back to default", 0, 0, DefaultAssistants},
		{"below range falls back", 1, 0, DefaultAssistants},
		{"above range falls back", 12, 0, DefaultAssistants},
		{"forced count overrides planner", 3, 6, 6},
		{"forced count out of range falls back", 3, 1, DefaultAssistants},
		{"forced count above range falls back", 3, 20, DefaultAssistants},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Plan{AssistantCount: tt.planned}
			p.Normalize(tt.forced, nil)
			if p.AssistantCount != tt.wantCount {
				t.Errorf("AssistantCount = %d, want %d", p.AssistantCount, tt.wantCount)
			}
		})
	}
}

func TestNormalize_SeedsMissingFocuses(t *testing.T) {
	p := Plan{
		AssistantCount: 4,
		Focuses:        map[int]string{2: "Planner-assigned focus"},
	}
	p.Normalize(0, nil)

	if p.Focuses[2] != "Planner-assigned focus" {
		t.Errorf("existing focus overwritten: %q", p.Focuses[2])
	}
	for _, i := range []int{1, 3, 4} {
		if p.Focuses[i] != DefaultFocusForIndex(i) {
			t.Errorf("Focuses[%d] = %q, want default %q", i, p.Focuses[i], DefaultFocusForIndex(i))
		}
	}
}

func TestNormalize_CustomFocusesTakePrecedenceOverDefaults(t *testing.T) {
	p := Plan{AssistantCount: 3}
	p.Normalize(0, []string{"Security review", "Performance audit"})

	if p.Focuses[1] != "Security review" || p.Focuses[2] != "Performance audit" {
		t.Errorf("custom focuses not applied: %v", p.Focuses)
	}
	if p.Focuses[3] != DefaultFocusForIndex(3) {
		t.Errorf("Focuses[3] = %q, want default", p.Focuses[3])
	}
}

func TestNormalize_PlannerFocusBeatsCustom(t *testing.T) {
	p := Plan{
		AssistantCount: 2,
		Focuses:        map[int]string{1: "Planner focus"},
	}
	p.Normalize(0, []string{"Custom one", "Custom two"})

	if p.Focuses[1] != "Planner focus" {
		t.Errorf("Focuses[1] = %q, want planner focus", p.Focuses[1])
	}
	if p.Focuses[2] != "Custom two" {
		t.Errorf("Focuses[2] = %q, want custom", p.Focuses[2])
	}
}

func TestFocusList_Ordered(t *testing.T) {
	p := Plan{AssistantCount: 3}
	p.Normalize(0, nil)

	list := p.FocusList()
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3", len(list))
	}
	for i, focus := range list {
		if focus != p.Focuses[i+1] {
			t.Errorf("list[%d] = %q, want %q", i, focus, p.Focuses[i+1])
		}
	}
}

func TestDefaultFocusForIndex_OutOfTable(t *testing.T) {
	if got := DefaultFocusForIndex(99); got != "General research" {
		t.Errorf("DefaultFocusForIndex(99) = %q", got)
	}
	if got := DefaultFocusForIndex(1); got != "Factual research and direct information" {
		t.Errorf("DefaultFocusForIndex(1) = %q", got)
	}
}
