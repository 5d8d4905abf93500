// Package fetch - platform.go keeps every page selector the scraper depends on.
package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known job board platform.
type Platform string

const (
	// PlatformLinkedIn is the LinkedIn public job view
	PlatformLinkedIn Platform = "linkedin"
	// PlatformGreenhouse is the Greenhouse ATS platform
	PlatformGreenhouse Platform = "greenhouse"
	// PlatformLever is the Lever ATS platform
	PlatformLever Platform = "lever"
	// PlatformWorkday is the Workday ATS platform
	PlatformWorkday Platform = "workday"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

// Selectors used against LinkedIn guest job pages. When LinkedIn changes its
// markup, these are the only strings to update; the ExtractionFailed
// diagnostics list the ids and button classes actually present.
const (
	LinkedInDismissSelector   = "button.contextual-sign-in-modal__modal-dismiss"
	LinkedInExpandSelector    = ".show-more-less-html__button--more"
	LinkedInContainerSelector = "div.show-more-less-html__markup"
)

// Selectors names the page elements the scraper interacts with.
type Selectors struct {
	// Dismiss is the close control of the sign-in modal.
	Dismiss string
	// Expand is the "show more" control that reveals collapsed content.
	Expand string
	// Containers are tried in order; the first match holds the description.
	Containers []string
}

// DefaultSelectors returns the LinkedIn selectors.
func DefaultSelectors() Selectors {
	return Selectors{
		Dismiss:    LinkedInDismissSelector,
		Expand:     LinkedInExpandSelector,
		Containers: []string{LinkedInContainerSelector},
	}
}

// DetectPlatform identifies the job board platform from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Host)

	switch {
	case strings.Contains(host, "linkedin.com"):
		return PlatformLinkedIn
	case strings.Contains(host, "greenhouse.io"):
		return PlatformGreenhouse
	case strings.Contains(host, "lever.co"):
		return PlatformLever
	case strings.Contains(host, "workday.com"), strings.Contains(host, "myworkdayjobs.com"):
		return PlatformWorkday
	default:
		return PlatformUnknown
	}
}

// SelectorsFor returns the selectors for the platform hosting urlStr.
// Unknown hosts get the LinkedIn selectors.
func SelectorsFor(urlStr string) Selectors {
	sel := DefaultSelectors()

	switch DetectPlatform(urlStr) {
	case PlatformGreenhouse:
		sel.Containers = []string{
			".job__description.body",
			".job__description",
			".job-description__content",
			"#content",
		}
	case PlatformLever:
		sel.Containers = []string{
			".section-wrapper.page-full-width",
			".posting-description",
			".posting-page",
		}
	case PlatformWorkday:
		sel.Containers = []string{
			"[data-automation-id='jobPostingDescription']",
			"[data-automation-id='jobDescription']",
		}
	}
	return sel
}
