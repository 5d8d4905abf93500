package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url      string
		expected Platform
	}{
		{"https://www.linkedin.com/jobs/view/4239751114/", PlatformLinkedIn},
		{"https://job-boards.greenhouse.io/doordashusa/jobs/7063751", PlatformGreenhouse},
		{"https://boards.greenhouse.io/company/jobs/123", PlatformGreenhouse},
		{"https://jobs.lever.co/company/job-id", PlatformLever},
		{"https://company.wd5.myworkdayjobs.com/en-US/External", PlatformWorkday},
		{"https://example.test/job/1", PlatformUnknown},
		{"://broken", PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectPlatform(tt.url))
		})
	}
}

func TestSelectorsFor(t *testing.T) {
	linkedIn := SelectorsFor("https://www.linkedin.com/jobs/view/1")
	assert.Equal(t, DefaultSelectors(), linkedIn)
	assert.Equal(t, []string{"div.show-more-less-html__markup"}, linkedIn.Containers)
	assert.Equal(t, "button.contextual-sign-in-modal__modal-dismiss", linkedIn.Dismiss)
	assert.Equal(t, ".show-more-less-html__button--more", linkedIn.Expand)

	unknown := SelectorsFor("https://example.test/job/1")
	assert.Equal(t, DefaultSelectors(), unknown)

	greenhouse := SelectorsFor("https://boards.greenhouse.io/acme/jobs/1")
	assert.Equal(t, ".job__description.body", greenhouse.Containers[0])
	assert.Equal(t, LinkedInDismissSelector, greenhouse.Dismiss)
}
