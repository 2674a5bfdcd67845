package errors

import (
	"unicode"
)

// MaxIDLength bounds node, link, and graph identifier lengths.
// Identifiers end up in cache keys, URL paths, and session documents,
// so unbounded input is rejected at the boundary.
const MaxIDLength = 256

// ValidateNodeID validates a node identifier for safety and correctness.
//
// The validation rules are intentionally conservative:
//   - No empty ids
//   - No control characters
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidNode, "node id cannot be empty")
	}

	if len(id) > MaxIDLength {
		return New(ErrCodeInvalidNode, "node id too long (max %d characters)", MaxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidNode, "node id contains invalid control characters")
		}
	}

	return nil
}

// ValidateLayerID validates a layer identifier. Empty is allowed (a node
// without a layer), otherwise the same rules as node ids apply.
func ValidateLayerID(id string) error {
	if id == "" {
		return nil
	}

	if len(id) > MaxIDLength {
		return New(ErrCodeInvalidLayer, "layer id too long (max %d characters)", MaxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidLayer, "layer id contains invalid control characters")
		}
	}

	return nil
}

// ValidateStrength checks that a link strength lies in [0, 1].
func ValidateStrength(strength float64) error {
	if strength < 0 || strength > 1 {
		return New(ErrCodeInvalidLink, "link strength must be in [0, 1], got %g", strength)
	}
	return nil
}

// ValidateAudienceTag validates a single audience tag.
func ValidateAudienceTag(tag string) error {
	if tag == "" {
		return New(ErrCodeInvalidNode, "audience tag cannot be empty")
	}

	if len(tag) > MaxIDLength {
		return New(ErrCodeInvalidNode, "audience tag too long (max %d characters)", MaxIDLength)
	}

	for _, r := range tag {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidNode, "audience tag contains invalid control characters")
		}
	}

	return nil
}
