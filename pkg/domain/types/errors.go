package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify pipeline failures. Terminal tags stop the pipeline;
// ErrTagUpload and ErrTagChangelogLookup are recorded and swallowed.
var (
	ErrTagAuthentication        = goerr.NewTag("authentication")
	ErrTagMalformedEvent        = goerr.NewTag("malformed_event")
	ErrTagNotAPackage           = goerr.NewTag("not_a_package")
	ErrTagBuildFailed           = goerr.NewTag("build_failed")
	ErrTagVersionMismatch       = goerr.NewTag("version_mismatch")
	ErrTagUpload                = goerr.NewTag("upload")
	ErrTagChangelogLookup       = goerr.NewTag("changelog_lookup")
	ErrTagNotificationTransport = goerr.NewTag("notification_transport")
	ErrTagSecretsUnavailable    = goerr.NewTag("secrets_unavailable")
	ErrTagObjectNotFound        = goerr.NewTag("object_not_found")
)

// ErrorKind returns the name of the terminal tag attached to err, or
// "internal" if it carries none. Tags are checked in precedence order.
func ErrorKind(err error) string {
	switch {
	case goerr.HasTag(err, ErrTagAuthentication):
		return ErrTagAuthentication.String()
	case goerr.HasTag(err, ErrTagMalformedEvent):
		return ErrTagMalformedEvent.String()
	case goerr.HasTag(err, ErrTagNotAPackage):
		return ErrTagNotAPackage.String()
	case goerr.HasTag(err, ErrTagBuildFailed):
		return ErrTagBuildFailed.String()
	case goerr.HasTag(err, ErrTagVersionMismatch):
		return ErrTagVersionMismatch.String()
	case goerr.HasTag(err, ErrTagNotificationTransport):
		return ErrTagNotificationTransport.String()
	case goerr.HasTag(err, ErrTagSecretsUnavailable):
		return ErrTagSecretsUnavailable.String()
	default:
		return "internal"
	}
}
