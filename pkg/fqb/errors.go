package fqb

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

// Human readable error summaries.
const (
	SummaryLoginRequired      = "Login required."
	SummaryDowntime           = "Downtime. Try again later."
	SummaryDuplicatePost      = "Duplicate post. Change and try again."
	SummaryUserIssue          = "User issue on Facebook."
	SummaryExtendedPermission = "Extended permission required."
	SummaryUnknown            = "Unknown Error"
)

// ErrorTypeOAuth is the Graph error type reported for authentication failures.
const ErrorTypeOAuth = "OAuthException"

// errorMessagePrefix is prepended to every classified transport message.
const errorMessagePrefix = "Error communicating with Facebook: "

// Static errors for err113 compliance.
var (
	ErrNoConnection     = errors.New("no connection configured")
	ErrNoRootEdge       = errors.New("no root edge configured")
	ErrConfigRequired   = errors.New("config is required")
	ErrGraphURLRequired = errors.New("graph URL is required")
)

var summaryByCode = map[int]string{
	0:   SummaryLoginRequired,
	102: SummaryLoginRequired,
	458: SummaryLoginRequired,
	460: SummaryLoginRequired,
	463: SummaryLoginRequired,
	467: SummaryLoginRequired,
	1:   SummaryDowntime,
	2:   SummaryDowntime,
	4:   SummaryDowntime,
	17:  SummaryDowntime,
	341: SummaryDowntime,
	506: SummaryDuplicatePost,
	459: SummaryUserIssue,
	464: SummaryUserIssue,
}

var requiredPermissionPattern = regexp.MustCompile(`\(#[0-9]+\) Requires extended permission: (.+)`)

// TransportFailure is the failure a Transport reports when the Graph API
// answers with an error.
type TransportFailure struct {
	Code        int
	Message     string
	RawResponse []byte
	ErrorType   string
	StatusCode  int
	Subcode     int
	TraceID     string
}

// Error implements the error interface.
func (f *TransportFailure) Error() string {
	if f.ErrorType != "" {
		return fmt.Sprintf("%s: %s (code: %d)", f.ErrorType, f.Message, f.Code)
	}

	return fmt.Sprintf("%s (code: %d)", f.Message, f.Code)
}

// graphErrorBody is the error envelope returned by the Graph API.
type graphErrorBody struct {
	Error *struct {
		Message      string `json:"message"`
		Type         string `json:"type"`
		Code         int    `json:"code"`
		ErrorSubcode int    `json:"error_subcode"`
		FBTraceID    string `json:"fbtrace_id"`
	} `json:"error"`
}

// ParseErrorBody builds a TransportFailure from an error response. When the
// body is not a Graph error envelope the HTTP status code is used as the
// error code.
func ParseErrorBody(statusCode int, body []byte) *TransportFailure {
	failure := &TransportFailure{
		Code:        statusCode,
		Message:     http.StatusText(statusCode),
		RawResponse: body,
		StatusCode:  statusCode,
	}

	var envelope graphErrorBody

	err := json.Unmarshal(body, &envelope)
	if err != nil || envelope.Error == nil {
		if text := strings.TrimSpace(string(body)); text != "" && err != nil {
			failure.Message = fmt.Sprintf("%s: %s", failure.Message, text)
		}

		return failure
	}

	failure.Code = envelope.Error.Code
	failure.Message = envelope.Error.Message
	failure.ErrorType = envelope.Error.Type
	failure.Subcode = envelope.Error.ErrorSubcode
	failure.TraceID = envelope.Error.FBTraceID

	return failure
}

// Error is a classified Graph API failure. It is immutable once built.
type Error struct {
	message  string
	code     int
	errType  string
	subcode  int
	response *Response
	cause    *TransportFailure
}

// NewError classifies a transport failure.
func NewError(failure *TransportFailure) *Error {
	classified := &Error{
		message: errorMessagePrefix + failure.Message,
		code:    failure.Code,
		errType: failure.ErrorType,
		subcode: failure.Subcode,
		cause:   failure,
	}

	if len(failure.RawResponse) > 0 {
		response, err := NewResponse(failure.RawResponse)
		if err == nil {
			classified.response = response
		}
	}

	return classified
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.message
}

// Unwrap returns the underlying transport failure.
func (e *Error) Unwrap() error {
	if e.cause == nil {
		return nil
	}

	return e.cause
}

// Message returns the error message.
func (e *Error) Message() string {
	return e.message
}

// Code returns the Graph error code.
func (e *Error) Code() int {
	return e.code
}

// Type returns the Graph error type, e.g. "OAuthException".
func (e *Error) Type() string {
	return e.errType
}

// Subcode returns the Graph error subcode.
func (e *Error) Subcode() int {
	return e.subcode
}

// Response returns the decoded error body, or nil if there was none.
func (e *Error) Response() *Response {
	return e.response
}

// Summary translates the error code into a short human readable category.
func (e *Error) Summary() string {
	if summary, ok := summaryByCode[e.code]; ok {
		return summary
	}

	if e.code == 10 || (e.code >= 200 && e.code <= 299) {
		return SummaryExtendedPermission
	}

	if e.errType == ErrorTypeOAuth {
		return SummaryLoginRequired
	}

	return SummaryUnknown
}

// RequiredPermissions parses the permission named in the message. Only the
// first match is considered, so at most one permission is returned.
func (e *Error) RequiredPermissions() []string {
	match := requiredPermissionPattern.FindStringSubmatch(e.message)
	if match == nil {
		return []string{}
	}

	return []string{match[1]}
}

// Classify turns a transport error into an *Error when it carries a
// TransportFailure. Other errors are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	var failure *TransportFailure
	if errors.As(err, &failure) {
		return NewError(failure)
	}

	return err
}

func hasSummary(err error, summary string) bool {
	graphErr := &Error{}
	if errors.As(err, &graphErr) {
		return graphErr.Summary() == summary
	}

	return false
}

// IsLoginRequired checks if the error asks the user to log in again.
func IsLoginRequired(err error) bool {
	return hasSummary(err, SummaryLoginRequired)
}

// IsDowntime checks if the error reports Graph API downtime.
func IsDowntime(err error) bool {
	return hasSummary(err, SummaryDowntime)
}

// IsDuplicatePost checks if the error reports a duplicate post.
func IsDuplicatePost(err error) bool {
	return hasSummary(err, SummaryDuplicatePost)
}

// IsUserIssue checks if the error reports a problem with the user account.
func IsUserIssue(err error) bool {
	return hasSummary(err, SummaryUserIssue)
}

// IsPermissionRequired checks if the error asks for an extended permission.
func IsPermissionRequired(err error) bool {
	return hasSummary(err, SummaryExtendedPermission)
}

// RequiredPermissions returns the permissions named by a classified error.
func RequiredPermissions(err error) []string {
	graphErr := &Error{}
	if errors.As(err, &graphErr) {
		return graphErr.RequiredPermissions()
	}

	return []string{}
}
