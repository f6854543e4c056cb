package access

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Statements managed by this tool carry a Sid with this prefix so that
// revocation only ever touches statements we added. Statements from
// other tooling are carried through untouched as raw JSON.
const managedSidPrefix = "JitAccess"

type bucketPolicy struct {
	Version   string            `json:"Version"`
	ID        string            `json:"Id,omitempty"`
	Statement []json.RawMessage `json:"Statement"`
}

type managedStatement struct {
	Sid       string `json:"Sid"`
	Effect    string `json:"Effect"`
	Principal struct {
		AWS string `json:"AWS"`
	} `json:"Principal"`
	Action   []string `json:"Action"`
	Resource []string `json:"Resource"`
}

// statementProbe decodes just enough of any statement to decide
// whether this tool owns it and who it grants to.
type statementProbe struct {
	Sid       string `json:"Sid"`
	Principal struct {
		AWS interface{} `json:"AWS"`
	} `json:"Principal"`
}

func templateActions(template string) ([]string, error) {
	switch template {
	case "", "read-only":
		return []string{"s3:GetObject", "s3:ListBucket"}, nil
	case "read-write":
		return []string{"s3:GetObject", "s3:ListBucket", "s3:PutObject", "s3:DeleteObject"}, nil
	default:
		return nil, errors.Errorf("unknown policy template %q (supported: read-only, read-write)", template)
	}
}

// addBucketPolicyStatement returns the bucket policy document with a
// grant statement for the principal appended. current may be empty
// when the bucket has no policy yet.
func addBucketPolicyStatement(current, principalARN, bucket, template string) (string, error) {
	actions, err := templateActions(template)
	if err != nil {
		return "", err
	}

	doc := bucketPolicy{Version: "2012-10-17"}
	if current != "" {
		if err := json.Unmarshal([]byte(current), &doc); err != nil {
			return "", errors.Wrap(err, "parsing existing bucket policy")
		}
	}

	var stmt managedStatement
	stmt.Sid = managedSid(principalARN)
	stmt.Effect = "Allow"
	stmt.Principal.AWS = principalARN
	stmt.Action = actions
	stmt.Resource = []string{
		fmt.Sprintf("arn:aws:s3:::%s", bucket),
		fmt.Sprintf("arn:aws:s3:::%s/*", bucket),
	}
	raw, err := json.Marshal(stmt)
	if err != nil {
		return "", errors.Wrap(err, "marshalling grant statement")
	}

	// replace any previous grant for the same principal rather than
	// stacking duplicates
	doc.Statement = append(withoutPrincipal(doc.Statement, principalARN), raw)

	out, err := json.Marshal(doc)
	if err != nil {
		return "", errors.Wrap(err, "marshalling bucket policy")
	}
	return string(out), nil
}

// removeBucketPolicyStatements strips this tool's statements for the
// principal. It returns the updated document and whether any
// statements remain; an empty remainder means the policy should be
// deleted outright.
func removeBucketPolicyStatements(current, principalARN string) (updated string, remaining bool, err error) {
	var doc bucketPolicy
	if err := json.Unmarshal([]byte(current), &doc); err != nil {
		return "", false, errors.Wrap(err, "parsing existing bucket policy")
	}
	doc.Statement = withoutPrincipal(doc.Statement, principalARN)
	if len(doc.Statement) == 0 {
		return "", false, nil
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return "", false, errors.Wrap(err, "marshalling bucket policy")
	}
	return string(out), true, nil
}

func withoutPrincipal(statements []json.RawMessage, principalARN string) []json.RawMessage {
	var kept []json.RawMessage
	for _, raw := range statements {
		var probe statementProbe
		if err := json.Unmarshal(raw, &probe); err != nil {
			kept = append(kept, raw)
			continue
		}
		if strings.HasPrefix(probe.Sid, managedSidPrefix) && principalMatches(probe.Principal.AWS, principalARN) {
			continue
		}
		kept = append(kept, raw)
	}
	return kept
}

func principalMatches(principal interface{}, arn string) bool {
	switch p := principal.(type) {
	case string:
		return p == arn
	case []interface{}:
		for _, v := range p {
			if s, ok := v.(string); ok && s == arn {
				return true
			}
		}
	}
	return false
}

// managedSid derives a stable statement ID from the principal ARN.
// Sids must be alphanumeric.
func managedSid(principalARN string) string {
	var b strings.Builder
	b.WriteString(managedSidPrefix)
	for _, r := range principalARN {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
