package cleaner

import "testing"

func TestTransformCasingModes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"snake", "snake case my variable name", "my_variable_name"},
		{"camel", "camel case get user data", "getUserData"},
		{"pascal", "pascal case user service", "UserService"},
		{"kebab", "kebab case my component", "my-component"},
		{"title", "title case hello world", "Hello World"},
		{"all caps", "all caps max retries", "MAX_RETRIES"},
		{"upper case", "upper case max retries", "MAX_RETRIES"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TransformCasing(tt.in); got != tt.want {
				t.Errorf("TransformCasing(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTransformCasingScopeEndsAtSentenceBoundary(t *testing.T) {
	got := TransformCasing("define snake case my variable name. then continue")
	want := "define my_variable_name then continue"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTransformCasingScopeToEndOfText(t *testing.T) {
	got := TransformCasing("call camel case get user data")
	if got != "call getUserData" {
		t.Errorf("got %q", got)
	}
}

func TestTransformCasingFirstCommandWins(t *testing.T) {
	got := TransformCasing("snake case foo bar, camel case baz qux")
	want := "foo_bar camel case baz qux"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTransformCasingNoCommand(t *testing.T) {
	in := "nothing to see here"
	if got := TransformCasing(in); got != in {
		t.Errorf("got %q, want unchanged", got)
	}
}

func TestTransformCasingAfterClean(t *testing.T) {
	got := TransformCasing(Clean("fix the api response then snake case my variable name"))
	want := "fix the API response then my_variable_name"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTransformCasingEmpty(t *testing.T) {
	if got := TransformCasing(""); got != "" {
		t.Errorf("got %q", got)
	}
}
