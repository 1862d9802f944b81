package media

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	if params.Body != nil {
		f.body, _ = io.ReadAll(params.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestDetectImageType(t *testing.T) {
	ct, ext, err := DetectImageType(pngHeader)
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)
	assert.Equal(t, ".png", ext)

	ct, ext, err = DetectImageType([]byte("\xff\xd8\xff\xe0\x00\x10JFIF"))
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", ct)
	assert.Equal(t, ".jpg", ext)

	_, _, err = DetectImageType([]byte("plain text, not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestS3Uploader_Upload(t *testing.T) {
	fake := &fakeS3{}
	u := newS3Uploader(fake, "menu-bucket", "https://cdn.example.com/")
	u.newKey = func(prefix, ext string) string { return "menu-items/" + prefix + "/fixed" + ext }

	url, err := u.Upload(context.Background(), "42", pngHeader)
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/menu-items/42/fixed.png", url)
	assert.Equal(t, "menu-bucket", aws.ToString(fake.input.Bucket))
	assert.Equal(t, "menu-items/42/fixed.png", aws.ToString(fake.input.Key))
	assert.Equal(t, "image/png", aws.ToString(fake.input.ContentType))
	assert.Equal(t, pngHeader, fake.body)
}

func TestS3Uploader_Rejects(t *testing.T) {
	fake := &fakeS3{}
	u := newS3Uploader(fake, "b", "https://cdn")

	_, err := u.Upload(context.Background(), "1", nil)
	assert.Error(t, err)

	_, err = u.Upload(context.Background(), "1", []byte("<html></html>"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.Nil(t, fake.input)

	fake.err = errors.New("access denied")
	_, err = u.Upload(context.Background(), "1", pngHeader)
	assert.ErrorContains(t, err, "access denied")
}
