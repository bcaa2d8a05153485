package core

import (
	"fmt"
	"os"

	"github.com/RecoveryAshes/OdmCheck/internal/browser"
	"github.com/RecoveryAshes/OdmCheck/internal/models"
	"github.com/RecoveryAshes/OdmCheck/internal/utils"
)

// LoadCredentials 从环境变量加载HTTP基本认证凭据
// 凭据只从环境变量读取, 不进配置文件不进命令行。
// 缺失是致命配置错误, 必须在任何浏览器交互之前失败
func LoadCredentials(env models.Environment) (browser.Credentials, error) {
	userVar, passVar := env.CredentialEnvNames()

	username := os.Getenv(userVar)
	password := os.Getenv(passVar)
	if username == "" || password == "" {
		return browser.Credentials{}, fmt.Errorf(
			"缺少凭据: 必须设置环境变量 %s 和 %s (环境 %s)", userVar, passVar, env)
	}

	redactor := utils.NewCredentialRedactor()
	utils.Infof("🔐 凭据已加载: %s=%s, %s=%s",
		userVar, redactor.RedactValue(username),
		passVar, redactor.RedactValue(password))

	return browser.Credentials{
		Username: username,
		Password: password,
	}, nil
}
