package services

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ideaswipe_server/apperrors"
)

const presignExpiry = 5 * time.Minute

// ObjectPresigner is satisfied by *s3.PresignClient.
type ObjectPresigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// AttachmentPrefix is the key prefix every attachment of matchID lives under.
func AttachmentPrefix(matchID string) string {
	return "chat-attachments/" + matchID + "/"
}

// UploadTicket tells a client where to PUT a file and which key to send with the message.
type UploadTicket struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// AttachmentService hands out short-lived S3 URLs for files shared in a conversation.
type AttachmentService struct {
	presigner ObjectPresigner
	bucket    string
	matches   *MatchService
	log       *zap.SugaredLogger
}

// NewAttachmentService returns a service that refuses every call when presigner is nil
// or no bucket is configured.
func NewAttachmentService(presigner ObjectPresigner, bucket string, matches *MatchService, log *zap.SugaredLogger) *AttachmentService {
	return &AttachmentService{presigner: presigner, bucket: bucket, matches: matches, log: log}
}

func (s *AttachmentService) enabled() bool {
	return s.presigner != nil && s.bucket != ""
}

// UploadURL presigns a PUT for a new object under the match's prefix.
func (s *AttachmentService) UploadURL(ctx context.Context, matchID, userID, fileName, fileType string) (*UploadTicket, error) {
	if !s.enabled() {
		return nil, apperrors.ErrAttachmentsOff
	}
	if _, err := s.matches.participantMatch(ctx, matchID, userID); err != nil {
		return nil, err
	}

	key := AttachmentPrefix(matchID) + uuid.NewString() + "-" + path.Base(fileName)
	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(fileType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		s.log.Errorw("presign upload failed", "matchId", matchID, "error", err)
		return nil, apperrors.Internal(err)
	}
	return &UploadTicket{URL: req.URL, Key: key}, nil
}

// ReadURL presigns a GET for an attachment of the match.
func (s *AttachmentService) ReadURL(ctx context.Context, matchID, userID, key string) (string, error) {
	if !s.enabled() {
		return "", apperrors.ErrAttachmentsOff
	}
	if _, err := s.matches.participantMatch(ctx, matchID, userID); err != nil {
		return "", err
	}
	if !strings.HasPrefix(key, AttachmentPrefix(matchID)) || strings.Contains(key, "..") {
		return "", apperrors.ErrInvalidAttachment
	}

	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		s.log.Errorw("presign read failed", "matchId", matchID, "error", err)
		return "", apperrors.Internal(err)
	}
	return req.URL, nil
}
