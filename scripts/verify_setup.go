package main

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

func main() {
	fmt.Println("==============================================")
	fmt.Println("  OdmCheck Go版本环境验证")
	fmt.Println("==============================================")
	fmt.Println()

	allOK := true

	// 检查Go版本
	goVersion := runtime.Version()
	fmt.Printf("✅ Go版本: %s\n", goVersion)

	if !strings.HasPrefix(goVersion, "go1.23") &&
		!strings.HasPrefix(goVersion, "go1.24") {
		fmt.Println("⚠️  警告: 建议使用Go 1.23+版本")
	}

	// 检查操作系统
	fmt.Printf("✅ 操作系统: %s/%s\n", runtime.GOOS, runtime.GOARCH)

	// 检查浏览器 (rod可自动下载, 系统浏览器优先)
	browserFound := false
	for _, browser := range []string{"google-chrome", "chromium", "chromium-browser"} {
		if checkCommand(browser, "--version") {
			version := getCommandOutput(browser, "--version")
			fmt.Printf("✅ 浏览器已安装: %s\n", strings.TrimSpace(version))
			browserFound = true
			break
		}
	}
	if !browserFound {
		fmt.Println("⚠️  未找到系统Chrome/Chromium - rod将在首次运行时自动下载")
	}

	// 检查凭据环境变量
	fmt.Println()
	fmt.Println("检查凭据环境变量...")
	for _, env := range []string{"DEV", "PROD"} {
		userVar := "USERNAME_ODM_" + env
		passVar := "PASSWORD_ODM_" + env
		if os.Getenv(userVar) != "" && os.Getenv(passVar) != "" {
			fmt.Printf("✅ %s凭据已设置 (%s / %s)\n", env, userVar, passVar)
		} else {
			fmt.Printf("⚠️  %s凭据未设置 (%s / %s) - 该环境运行前必须设置\n", env, userVar, passVar)
		}
	}

	// 检查项目依赖
	fmt.Println()
	fmt.Println("检查Go模块依赖...")
	if _, err := os.Stat("go.mod"); err == nil {
		fmt.Println("✅ go.mod文件存在")

		fmt.Println("正在整理依赖...")
		cmd := exec.Command("go", "mod", "tidy")
		if err := cmd.Run(); err != nil {
			fmt.Printf("❌ go mod tidy失败: %v\n", err)
			allOK = false
		} else {
			fmt.Println("✅ 依赖整理完成")
		}

		fmt.Println("正在下载依赖...")
		cmd = exec.Command("go", "mod", "download")
		if err := cmd.Run(); err != nil {
			fmt.Printf("❌ go mod download失败: %v\n", err)
			allOK = false
		} else {
			fmt.Println("✅ 依赖下载完成")
		}
	} else {
		fmt.Println("❌ go.mod文件不存在")
		allOK = false
	}

	// 检查项目结构
	fmt.Println()
	fmt.Println("检查项目结构...")
	requiredDirs := []string{
		"cmd/odmcheck",
		"internal/core",
		"internal/dashboard",
		"internal/browser",
		"internal/config",
		"internal/utils",
		"internal/models",
		"scripts",
		"tests",
	}

	for _, dir := range requiredDirs {
		if _, err := os.Stat(dir); err == nil {
			fmt.Printf("✅ %s/\n", dir)
		} else {
			fmt.Printf("❌ %s/ 不存在\n", dir)
			allOK = false
		}
	}

	// 检查可选的运行期文件
	fmt.Println()
	fmt.Println("检查运行期文件...")
	if _, err := os.Stat("expected_files.json"); err == nil {
		fmt.Println("✅ expected_files.json 存在")
	} else {
		fmt.Println("⚠️  expected_files.json 不存在 - 运行前需提供预期清单")
	}
	if _, err := os.Stat("configs/slices.yaml"); err == nil {
		fmt.Println("✅ configs/slices.yaml 存在")
	} else {
		fmt.Println("ℹ️  configs/slices.yaml 不存在 - 首次运行时自动生成内置模板")
	}

	fmt.Println()
	fmt.Println("==============================================")
	if allOK {
		fmt.Println("✅ 环境验证通过!可以开始开发了。")
		fmt.Println()
		fmt.Println("下一步:")
		fmt.Println("  1. 运行 'make build' 构建项目")
		fmt.Println("  2. 设置凭据环境变量")
		fmt.Println("  3. 运行 './odmcheck --help' 查看帮助")
		os.Exit(0)
	} else {
		fmt.Println("❌ 环境验证失败,请解决上述问题。")
		os.Exit(1)
	}
}

// checkCommand 检查命令是否可用
func checkCommand(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	err := cmd.Run()
	return err == nil
}

// getCommandOutput 获取命令输出
func getCommandOutput(name string, args ...string) string {
	cmd := exec.Command(name, args...)
	output, err := cmd.Output()
	if err != nil {
		return ""
	}
	return string(output)
}
