package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifySource(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		wantPackage  string
		wantCategory Category
	}{
		{"api directory", "api/token-client/index.md", "token-client", CategoryAPI},
		{"api nested file", "api/token-client/classes/TokenClient.md", "token-client", CategoryAPI},
		{"api flat file", "api/payments.md", "payments", CategoryAPI},
		{"api at depth", "docs/api/webhooks/index.md", "webhooks", CategoryAPI},
		{"tutorial filename", "getting-started/tutorial-first-call.md", GuidesPackage, CategoryTutorial},
		{"tutorial uppercase", "Tutorial.md", GuidesPackage, CategoryTutorial},
		{"reference path", "reference/errors.md", GuidesPackage, CategoryReference},
		{"plain guide", "concepts/idempotency.md", GuidesPackage, CategoryGuide},
		{"root file", "README.md", GuidesPackage, CategoryGuide},
		{"windows separators", `api\payments\index.md`, "payments", CategoryAPI},
		{"leading slash", "/guides/auth.md", GuidesPackage, CategoryGuide},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := ClassifySource(tt.path)
			assert.Equal(t, tt.wantPackage, meta.Package)
			assert.Equal(t, tt.wantCategory, meta.Category)
		})
	}
}

func TestClassifySource_TutorialBeatsReference(t *testing.T) {
	// The file name decides before the directory does.
	meta := ClassifySource("reference/tutorial-webhooks.md")
	assert.Equal(t, CategoryTutorial, meta.Category)
}

func TestIsReferencePath(t *testing.T) {
	assert.True(t, IsReferencePath("api/token-client/index.md"))
	assert.False(t, IsReferencePath("guides/overview.md"))
	assert.False(t, IsReferencePath("reference/errors.md"))
}
