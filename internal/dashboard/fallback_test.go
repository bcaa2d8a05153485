package dashboard

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"testing"

	"github.com/andybalholm/brotli"
)

func TestDecodeBody(t *testing.T) {
	payload := []byte("open data maturity report content")

	var gzipBuf bytes.Buffer
	gw := gzip.NewWriter(&gzipBuf)
	_, _ = gw.Write(payload)
	_ = gw.Close()

	var flateBuf bytes.Buffer
	fw, _ := flate.NewWriter(&flateBuf, flate.DefaultCompression)
	_, _ = fw.Write(payload)
	_ = fw.Close()

	var brBuf bytes.Buffer
	bw := brotli.NewWriter(&brBuf)
	_, _ = bw.Write(payload)
	_ = bw.Close()

	tests := []struct {
		name     string
		encoding string
		body     []byte
		want     []byte
		wantErr  bool
	}{
		{"无编码原样返回", "", payload, payload, false},
		{"gzip解压", "gzip", gzipBuf.Bytes(), payload, false},
		{"deflate解压", "deflate", flateBuf.Bytes(), payload, false},
		{"brotli解压", "br", brBuf.Bytes(), payload, false},
		{"大小写与空白容忍", " GZIP ", gzipBuf.Bytes(), payload, false},
		{"未知编码原样返回", "zstd", payload, payload, false},
		{"gzip数据损坏", "gzip", []byte("not gzip"), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeBody(tt.encoding, tt.body)
			if (err != nil) != tt.wantErr {
				t.Fatalf("期望错误=%v, 实际错误=%v", tt.wantErr, err)
			}
			if tt.wantErr {
				return
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("解压结果不符: 得到 %q, 期望 %q", got, tt.want)
			}
		})
	}
}
