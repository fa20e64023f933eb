// Package app は3つの計測コマンドに共通する起動処理をまとめる。
//
// 共通フラグの登録、設定ファイルの読込とフラグによる上書き、
// ストアの接続（Firestore / エミュレータ / dry-run時のインメモリ）、
// Prometheusレジストリとイベントバスの用意、状態サーバーと
// 設定ファイル監視の起動を行う。
package app
