package dns

import (
	"errors"
	"testing"

	tcerrors "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common/errors"
)

func TestIsTencentNoRecord(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "no data of record",
			err:  tcerrors.NewTencentCloudSDKError("ResourceNotFound.NoDataOfRecord", "no records", "req-1"),
			want: true,
		},
		{
			name: "wrapped no data of record",
			err:  errors.Join(errors.New("list records"), tcerrors.NewTencentCloudSDKError("ResourceNotFound.NoDataOfRecord", "no records", "req-2")),
			want: true,
		},
		{
			name: "other api error",
			err:  tcerrors.NewTencentCloudSDKError("AuthFailure.SignatureFailure", "bad signature", "req-3"),
			want: false,
		},
		{
			name: "plain error",
			err:  errors.New("connection reset"),
			want: false,
		},
		{
			name: "nil",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isTencentNoRecord(tt.err); got != tt.want {
				t.Errorf("isTencentNoRecord() = %v, want %v", got, tt.want)
			}
		})
	}
}
