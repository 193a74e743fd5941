package utils

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/younsl/mincpu/internal/models"
)

// DefaultNameTagKey is the tag key used by the tag-key name policy when none is configured
const DefaultNameTagKey = "Name"

// ConvertEC2Tags converts EC2 tags to model tags, preserving order
func ConvertEC2Tags(tags []types.Tag) []models.Tag {
	if len(tags) == 0 {
		return nil
	}

	result := make([]models.Tag, 0, len(tags))
	for _, tag := range tags {
		result = append(result, models.Tag{
			Key:   aws.ToString(tag.Key),
			Value: aws.ToString(tag.Value),
		})
	}
	return result
}

// GetTagValue returns the value of a tag with the given key
func GetTagValue(tags []models.Tag, key string) (string, bool) {
	for _, tag := range tags {
		if tag.Key == key {
			return tag.Value, true
		}
	}
	return "", false
}

// GetFirstTagValue returns the value of the first tag regardless of its key
func GetFirstTagValue(tags []models.Tag) (string, bool) {
	if len(tags) == 0 {
		return "", false
	}
	return tags[0].Value, true
}

// ResolveName returns the display name of an instance under the given policy.
// Instances without a matching tag get models.NamePlaceholder.
func ResolveName(tags []models.Tag, policy models.NamePolicy, key string) string {
	var (
		name  string
		found bool
	)

	switch policy {
	case models.NamePolicyTagKey:
		if key == "" {
			key = DefaultNameTagKey
		}
		name, found = GetTagValue(tags, key)
	default:
		// first-tag: the historical behavior, any key wins as long as it comes first
		name, found = GetFirstTagValue(tags)
	}

	if !found {
		return models.NamePlaceholder
	}
	return name
}
