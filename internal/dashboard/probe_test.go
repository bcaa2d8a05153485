package dashboard

import "testing"

func TestCountDownloadAnchors(t *testing.T) {
	tests := []struct {
		name      string
		html      string
		wantCount int
	}{
		{
			"标准下载锚点",
			`<html><body>
				<a href="/a.pdf"><span>Download factsheet</span></a>
				<a href="/b.xlsx"><span>Download data</span></a>
			</body></html>`,
			2,
		},
		{
			"span深层嵌套",
			`<html><body>
				<a href="/a.pdf"><div><span><b>Download</b> now</span></div></a>
			</body></html>`,
			1,
		},
		{
			"无Download文本的span不计",
			`<html><body>
				<a href="/a.pdf"><span>View online</span></a>
				<a href="/b.pdf">Download</a>
			</body></html>`,
			0,
		},
		{
			"混合页面",
			`<html><body>
				<a href="/a.pdf"><span>Download</span></a>
				<a href="/nav">Home</a>
				<span>Download</span>
				<a href="/b.pdf"><span>Download questionnaire</span></a>
			</body></html>`,
			2,
		},
		{
			"空页面",
			`<html><body></body></html>`,
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, hrefs, err := CountDownloadAnchors([]byte(tt.html))
			if err != nil {
				t.Fatalf("解析失败: %v", err)
			}
			if count != tt.wantCount {
				t.Errorf("锚点数: 得到 %d, 期望 %d", count, tt.wantCount)
			}
			if len(hrefs) != count {
				t.Errorf("href列表长度应与计数一致: %d != %d", len(hrefs), count)
			}
		})
	}
}

func TestCountDownloadAnchorsHrefOrder(t *testing.T) {
	html := `<html><body>
		<a href="/first.pdf"><span>Download</span></a>
		<a href="/second.pdf"><span>Download</span></a>
		<a href="/third.pdf"><span>Download</span></a>
	</body></html>`

	_, hrefs, err := CountDownloadAnchors([]byte(html))
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}

	want := []string{"/first.pdf", "/second.pdf", "/third.pdf"}
	for i, w := range want {
		if hrefs[i] != w {
			t.Errorf("位置 %d: 得到 %q, 期望 %q (必须保持文档顺序)", i, hrefs[i], w)
		}
	}
}
