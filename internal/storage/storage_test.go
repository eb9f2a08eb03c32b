package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	qt "github.com/frankban/quicktest"
)

type fakeClient struct {
	putErrs    []error
	putCalls   int
	getErr     error
	getCalls   int
	getBody    string
	delCalls   int
	copyCalls  int
	listKeys   []string
	listCalls  int
}

func (f *fakeClient) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.putCalls++
	if len(f.putErrs) > 0 {
		err := f.putErrs[0]
		f.putErrs = f.putErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeClient) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.getBody))}, nil
}

func (f *fakeClient) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.delCalls++
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeClient) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.listCalls++
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for _, k := range f.listKeys {
		if strings.HasPrefix(k, aws.ToString(params.Prefix)) {
			out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
		}
	}
	return out, nil
}

func (f *fakeClient) CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error) {
	f.copyCalls++
	return &s3.CopyObjectOutput{}, nil
}

func TestUploadRetriesTransientFailures(t *testing.T) {
	c := qt.New(t)

	fake := &fakeClient{putErrs: []error{errors.New("timeout"), errors.New("timeout")}}
	store := NewWithClient(fake, "test-bucket")

	_, err := store.Upload(context.Background(), "resumes/a.pdf", "application/pdf", []byte("%PDF"))
	c.Assert(err, qt.IsNil)
	c.Assert(fake.putCalls, qt.Equals, 3)
}

func TestUploadGivesUpAfterMaxAttempts(t *testing.T) {
	c := qt.New(t)

	boom := errors.New("service unavailable")
	fake := &fakeClient{putErrs: []error{boom, boom, boom, boom}}
	store := NewWithClient(fake, "test-bucket")

	_, err := store.Upload(context.Background(), "resumes/a.pdf", "application/pdf", nil)
	c.Assert(err, qt.ErrorIs, boom)
	c.Assert(fake.putCalls, qt.Equals, 3)
}

func TestDownloadMissingObjectShortCircuits(t *testing.T) {
	c := qt.New(t)

	fake := &fakeClient{getErr: &types.NoSuchKey{}}
	store := NewWithClient(fake, "test-bucket")

	_, err := store.Download(context.Background(), "resumes/missing.pdf")
	c.Assert(err, qt.ErrorIs, ErrNotFound)
	c.Assert(fake.getCalls, qt.Equals, 1)
}

func TestDownloadReturnsBody(t *testing.T) {
	c := qt.New(t)

	fake := &fakeClient{getBody: "%PDF-1.7 content"}
	store := NewWithClient(fake, "test-bucket")

	data, err := store.Download(context.Background(), "resumes/a.pdf")
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, "%PDF-1.7 content")
}

func TestListFiltersByPrefix(t *testing.T) {
	c := qt.New(t)

	fake := &fakeClient{listKeys: []string{
		"resumes/u1/a.pdf", "resumes/u1/b.pdf", "previews/u1/a.png",
	}}
	store := NewWithClient(fake, "test-bucket")

	keys, err := store.List(context.Background(), "resumes/u1/")
	c.Assert(err, qt.IsNil)
	c.Assert(keys, qt.DeepEquals, []string{"resumes/u1/a.pdf", "resumes/u1/b.pdf"})
}

func TestMoveCopiesThenDeletes(t *testing.T) {
	c := qt.New(t)

	fake := &fakeClient{}
	store := NewWithClient(fake, "test-bucket")

	err := store.Move(context.Background(), "resumes/a.pdf", "archive/a.pdf")
	c.Assert(err, qt.IsNil)
	c.Assert(fake.copyCalls, qt.Equals, 1)
	c.Assert(fake.delCalls, qt.Equals, 1)
}

func TestPublicURLFallsBackToKey(t *testing.T) {
	c := qt.New(t)

	store := NewWithClient(&fakeClient{}, "test-bucket")
	c.Assert(store.PublicURL("resumes/a.pdf"), qt.Equals, "resumes/a.pdf")

	store.publicURL = "https://cdn.example.com"
	c.Assert(store.PublicURL("resumes/a.pdf"), qt.Equals, "https://cdn.example.com/resumes/a.pdf")
}
