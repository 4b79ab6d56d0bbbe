package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Log 是一个全局的、配置好的 logrus 实例
// 没调用InitLogger之前也能用（输出到stderr），测试里不用专门初始化
var Log = logrus.New()

// InitLogger 初始化全局的Logger实例，file为空时只输出到控制台
func InitLogger(level, file string) error {
	Log = logrus.New()

	// 日志是结构化的JSON，便于后续使用ELK、Loki等工具进行分析
	Log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02 15:04:05", // 自定义时间格式
	})

	// 日志同时打印在控制台(os.Stdout)和文件(file)里
	var out io.Writer = os.Stdout
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return err
		}
		out = io.MultiWriter(os.Stdout, f)
	}
	Log.SetOutput(out)

	// 只有大于等于这个级别的日志才会输出。开发时可以是Debug，生产环境可以是Info
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)
	return nil
}
