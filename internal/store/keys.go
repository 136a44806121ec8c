package store

import "encoding/binary"

// Key builders. Big-endian times keep the ts indexes scan-ordered.

func appendBE8(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

func keyPostByID(id string) []byte {
	return append([]byte("post/id/"), id...)
}

func keyPostByTime(ts int64) []byte {
	return appendBE8([]byte("post/ts/"), uint64(ts))
}

func keyReactionByID(id string) []byte {
	return append([]byte("react/id/"), id...)
}

func keyReactionByTime(ts int64) []byte {
	return appendBE8([]byte("react/ts/"), uint64(ts))
}

func keyReactionPair(updateID, userID, kind string) []byte {
	k := make([]byte, 0, len("react/pair/")+len(updateID)+len(userID)+len(kind)+2)
	k = append(k, "react/pair/"...)
	k = append(k, updateID...)
	k = append(k, '/')
	k = append(k, userID...)
	k = append(k, '/')
	k = append(k, kind...)
	return k
}

func keyReactionPairPrefix(updateID string) []byte {
	k := append([]byte("react/pair/"), updateID...)
	return append(k, '/')
}

func keyUserByID(id string) []byte {
	return append([]byte("user/id/"), id...)
}

func keyUserByEmail(email string) []byte {
	return append([]byte("user/email/"), email...)
}

func keySession(token string) []byte {
	return append([]byte("session/"), token...)
}

func keyVerification(token string) []byte {
	return append([]byte("verify/"), token...)
}

// prefixEnd returns the smallest key greater than every key with the prefix.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
