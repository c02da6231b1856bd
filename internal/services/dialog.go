package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mrlokans/calibre-xmnote/internal/calibre"
	"github.com/mrlokans/calibre-xmnote/internal/validate"
	"github.com/mrlokans/calibre-xmnote/internal/xmnote"
)

// HelpTitle and HelpText are shown by the help action.
const (
	HelpTitle = "帮助"
	HelpText  = "若要将Calibre的笔记发送至纸间书摘，请确保纸间书摘的版本在v3.5.6及以上。" +
		"在开始导出前您需要让运行Calibre的设备与运行纸间书摘的设备处在同一局域网中，" +
		"然后在纸间书摘中打开「我的」-「书摘导入」-「通过API导入」，您可以在打开的页面底部看到设备的IP。" +
		"将IP输入至「设置目标设备的IP」一栏中，即可开始执行笔记的导出。"
)

const (
	networkErrorTitle = "请求发送失败"
	networkErrorBody  = "可能原因:\n• 目标设备IP地址错误\n• 目标设备未进入API导入界面"
	invalidIPText     = "IP地址无效"
	portRangeText     = "端口为一个1024 ~ 65535的整数"
)

// Message is a user-facing error dialog.
type Message struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// ErrorMessage maps an export or settings error to the dialog the user sees.
func ErrorMessage(err error) Message {
	var (
		netErr    *xmnote.NetworkError
		statusErr *xmnote.StatusError
		parseErr  *xmnote.ParseError
		valErr    *validate.ValidationError
	)

	switch {
	case errors.As(err, &netErr):
		return Message{Title: networkErrorTitle, Body: networkErrorBody}
	case errors.As(err, &statusErr):
		return Message{Title: networkErrorTitle, Body: fmt.Sprintf("设备返回错误 (HTTP %d)", statusErr.StatusCode)}
	case errors.As(err, &valErr):
		if valErr.Field == "server_port" {
			if errors.Is(err, validate.ErrPortNotNumeric) {
				return Message{Title: "端口格式错误", Body: portRangeText}
			}
			return Message{Title: "端口无效", Body: portRangeText}
		}
		return Message{Title: invalidIPText, Body: invalidIPText}
	case errors.As(err, &parseErr):
		return Message{Title: "笔记解析失败", Body: err.Error()}
	case errors.Is(err, calibre.ErrBookNotFound):
		return Message{Title: "书籍不存在", Body: err.Error()}
	case errors.Is(err, ErrNoLibrary):
		return Message{Title: "未找到书库", Body: err.Error()}
	case errors.Is(err, ErrNoBooksSelected):
		return Message{Title: "未选择书籍", Body: "请先选择要导出的书籍"}
	default:
		return Message{Title: "导出失败", Body: err.Error()}
	}
}

// SummaryLabel renders the target address and the titles of the given books
// the way the export dialog shows them.
func SummaryLabel(ip string, titles []string) string {
	var b strings.Builder
	b.WriteString("目标设备IP:\n")
	b.WriteString(ip)
	b.WriteString("\n\n已选书籍:\n")
	for _, title := range titles {
		b.WriteString("• ")
		b.WriteString(title)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}
