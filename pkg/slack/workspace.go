package slack

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// SignInURL is where the interactive login flow starts.
const SignInURL = "https://slack.com/signin"

// Workspace names are ASCII only: letters, digits, underscores and hyphens.
// A non-ASCII name must be given in its punycode form.
var workspacePattern = regexp.MustCompile(`^https://[\w\-]+(\.enterprise)?\.slack\.com$`)

// ValidateWorkspaceURL checks that url has the form
// https://<name>.slack.com or https://<name>.enterprise.slack.com.
func ValidateWorkspaceURL(url string) error {
	if !workspacePattern.MatchString(url) {
		return fmt.Errorf("%w: %q should look like https://company.slack.com or https://company.enterprise.slack.com", ErrInvalidFormat, url)
	}
	return nil
}

// ChannelURL builds the URL that opens channelID in the workspace.
func ChannelURL(workspaceURL, channelID string) string {
	return fmt.Sprintf("%s/messages/%s/", strings.TrimSuffix(workspaceURL, "/"), url.PathEscape(channelID))
}
