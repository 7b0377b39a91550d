package classifier

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type ClassifierClientTest struct {
	suite.Suite
}

func (c *ClassifierClientTest) TestParseResult_Valid() {
	content := `{
		"parts": [
			{
				"part": "我又搞砸了，everyone 都会失望",
				"blocks": ["self_worth", "catastrophizing"],
				"emotion": "shame",
				"importance": 7,
				"thinking_frame": "我总是让人失望",
				"level_of_mind": 40,
				"memory_type": "dynamic"
			}
		],
		"metadata": {
			"intention": "venting",
			"urgency": "low"
		}
	}`

	result, err := ParseResult(content)
	c.Nil(err)
	c.NotNil(result)
	c.Len(result.Parts, 1)
	c.Equal("shame", result.Parts[0].Emotion)
	c.Equal([]string{"self_worth", "catastrophizing"}, result.Parts[0].Blocks)
	c.NotNil(result.Metadata)
	c.Equal("venting", *result.Metadata.Intention)
}

func (c *ClassifierClientTest) TestParseResult_MarkdownFenced() {
	content := "```json\n{\"parts\":[{\"part\":\"text\",\"blocks\":[\"a\"]}]}\n```"

	result, err := ParseResult(content)
	c.Nil(err)
	c.Len(result.Parts, 1)
	c.Equal("text", result.Parts[0].Part)
}

func (c *ClassifierClientTest) TestParseResult_InvalidJSON() {
	result, err := ParseResult("not json at all")
	c.NotNil(err)
	c.Nil(result)
}

func (c *ClassifierClientTest) TestParseResult_MissingPartText() {
	content := `{"parts":[{"part":"  ","blocks":["a"]}]}`

	result, err := ParseResult(content)
	c.NotNil(err)
	c.Nil(result)
	c.Contains(err.Error(), "missing part text")
}

func (c *ClassifierClientTest) TestParseResult_MissingBlocks() {
	content := `{"parts":[{"part":"text"}]}`

	result, err := ParseResult(content)
	c.NotNil(err)
	c.Nil(result)
	c.Contains(err.Error(), "blocks list is missing")
}

func (c *ClassifierClientTest) TestParseResult_EmptyParts() {
	// 空 parts 是合法的：消息没有可入库的片段
	result, err := ParseResult(`{"parts":[]}`)
	c.Nil(err)
	c.NotNil(result)
	c.Len(result.Parts, 0)
}

func TestClassifierClient(t *testing.T) {
	suite.Run(t, new(ClassifierClientTest))
}
