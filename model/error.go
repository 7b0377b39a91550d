package model

import (
	"fmt"
	"regexp"

	log "github.com/sirupsen/logrus"
)

const (
	ErrorParams         = 200001
	ErrorEmptyId        = 200002
	ErrorNewRepo        = 200003
	ErrorDB             = 200004
	ErrorValidation     = 200005
	ErrorClassification = 200006
	ErrorEmbedding      = 200007
	ErrorUserNotExist   = 200008
)

var ErrorMessages = map[int]string{
	ErrorParams:         "参数错误",
	ErrorEmptyId:        "id 为空",
	ErrorNewRepo:        "新建 repo 失败",
	ErrorDB:             "db error",
	ErrorValidation:     "帧字段校验失败",
	ErrorClassification: "分类结果不符合 schema",
	ErrorEmbedding:      "embedding 调用失败",
	ErrorUserNotExist:   "用户不存在",
}

type Error struct {
	Code       int    `json:"code"`
	Message    string `json:"message"`
	InnerError error  `json:"inner_error"`
}

func (err Error) Error() string {
	return err.Message
}

func (err Error) String() string {
	return err.InnerError.Error()
}

func NewError(code int, innerError error) *Error {
	if innerError != nil {
		var re = regexp.MustCompile(`[\n\t]+`)
		innerErrorString := re.ReplaceAllString(fmt.Sprintf("%+v", innerError), " ")
		log.Errorf("NewError code:%d, message:%s, innerError:%+v\n", code, ErrorMessages[code], innerErrorString)
	}
	return &Error{
		Code:       code,
		Message:    ErrorMessages[code],
		InnerError: innerError,
	}
}

func NewErrorWithMessage(code int, message string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		InnerError: nil,
	}
}
